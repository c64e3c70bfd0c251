package interview

// DefaultTemplates is the curated starter set of mock-interview scripts.
func DefaultTemplates() []Template {
	return []Template{
		{
			Slug:        "backend-30",
			Role:        "Backend Engineer",
			DurationSec: 1800,
			Prompts: []Prompt{
				{
					Question:  "Walk me through how you would design a URL shortener.",
					KeyPoints: []string{"hash", "collision", "redirect", "cache", "database"},
				},
				{
					Question:  "How does an index speed up a query, and when does it hurt?",
					KeyPoints: []string{"b-tree", "lookup", "write", "cardinality"},
				},
				{
					Question:  "Explain how you would debug a memory leak in production.",
					KeyPoints: []string{"profil", "heap", "metrics", "reproduce"},
				},
			},
		},
		{
			Slug:        "frontend-20",
			Role:        "Frontend Engineer",
			DurationSec: 1200,
			Prompts: []Prompt{
				{
					Question:  "What happens between typing a URL and seeing the page?",
					KeyPoints: []string{"dns", "tcp", "tls", "render", "parse"},
				},
				{
					Question:  "How do you keep a large list responsive?",
					KeyPoints: []string{"virtual", "memo", "key", "batch"},
				},
			},
		},
	}
}
