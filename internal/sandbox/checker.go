// Package sandbox runs keyword-based checks against candidate code
// submissions. Checks are heuristic: required keywords must appear,
// forbidden patterns must not. There is no compilation or execution.
package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownExercise = errors.New("unknown exercise")

type Exercise struct {
	Slug           string   `json:"slug"`
	TechnologySlug string   `json:"technology_slug"`
	Title          string   `json:"title"`
	Prompt         string   `json:"prompt"`
	Required       []string `json:"required"`
	Forbidden      []string `json:"forbidden,omitempty"`
	// PassScore is the required keyword coverage in [0,1]; 0 means default.
	PassScore float64 `json:"pass_score,omitempty"`
}

type Result struct {
	Score    float64  `json:"score"` // keyword coverage in [0,1]
	Passed   bool     `json:"passed"`
	Missing  []string `json:"missing,omitempty"`
	Flagged  []string `json:"flagged,omitempty"`
	Feedback []string `json:"feedback"`
}

const defaultPassScore = 0.7

type Checker struct {
	exercises map[string]Exercise
}

func NewChecker(exercises []Exercise) *Checker {
	m := make(map[string]Exercise, len(exercises))
	for _, ex := range exercises {
		m[ex.Slug] = ex
	}
	return &Checker{exercises: m}
}

// List returns all exercises sorted by slug, prompts included, answers
// (the keyword lists) stripped.
func (c *Checker) List() []Exercise {
	out := make([]Exercise, 0, len(c.exercises))
	for _, ex := range c.exercises {
		ex.Required = nil
		ex.Forbidden = nil
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Check scores a submission against one exercise. Matching is
// case-insensitive containment; any forbidden hit fails the check outright.
func (c *Checker) Check(slug, source string) (Result, error) {
	ex, ok := c.exercises[slug]
	if !ok {
		return Result{}, ErrUnknownExercise
	}
	res := Result{}
	if strings.TrimSpace(source) == "" {
		res.Feedback = append(res.Feedback, "empty submission")
		return res, nil
	}
	low := strings.ToLower(source)

	found := 0
	for _, k := range ex.Required {
		if k == "" {
			continue
		}
		if strings.Contains(low, strings.ToLower(k)) {
			found++
		} else {
			res.Missing = append(res.Missing, k)
		}
	}
	if len(ex.Required) > 0 {
		res.Score = float64(found) / float64(len(ex.Required))
	}
	res.Feedback = append(res.Feedback, fmt.Sprintf("keyword hits: %d/%d", found, len(ex.Required)))

	for _, f := range ex.Forbidden {
		if f == "" {
			continue
		}
		if strings.Contains(low, strings.ToLower(f)) {
			res.Flagged = append(res.Flagged, f)
		}
	}
	if len(res.Flagged) > 0 {
		res.Feedback = append(res.Feedback, "forbidden pattern used")
		return res, nil
	}

	pass := ex.PassScore
	if pass == 0 {
		pass = defaultPassScore
	}
	res.Passed = res.Score >= pass
	return res, nil
}
