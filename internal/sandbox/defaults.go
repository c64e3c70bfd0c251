package sandbox

// DefaultExercises is the curated starter set served when no exercise file
// is configured.
func DefaultExercises() []Exercise {
	return []Exercise{
		{
			Slug:           "go-worker-pool",
			TechnologySlug: "go",
			Title:          "Bounded worker pool",
			Prompt:         "Process jobs from a channel with a fixed number of workers and wait for completion.",
			Required:       []string{"go func", "chan", "sync.WaitGroup", "wg.Wait", "close("},
			Forbidden:      []string{"time.Sleep"},
		},
		{
			Slug:           "js-debounce",
			TechnologySlug: "javascript",
			Title:          "Debounce",
			Prompt:         "Implement debounce(fn, delay) returning a wrapped function.",
			Required:       []string{"settimeout", "cleartimeout", "return", "apply"},
		},
		{
			Slug:           "sql-top-n",
			TechnologySlug: "sql",
			Title:          "Top N per group",
			Prompt:         "Return the two highest-paid employees per department.",
			Required:       []string{"row_number", "partition by", "order by", "where"},
			Forbidden:      []string{"select *"},
		},
	}
}
