package quiz_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/prepdeck/prepdeck-backend/internal/quiz"
)

func makePool(t *testing.T, n int) []quiz.QuestionRecord {
	t.Helper()
	pool := make([]quiz.QuestionRecord, n)
	for i := 0; i < n; i++ {
		pool[i] = quiz.QuestionRecord{
			ID:            fmt.Sprintf("q-%d", i),
			Prompt:        fmt.Sprintf("question %d", i),
			Options:       []string{fmt.Sprintf("a-%d", i), fmt.Sprintf("b-%d", i), fmt.Sprintf("c-%d", i), fmt.Sprintf("d-%d", i)},
			CorrectAnswer: i % 4,
			Explanation:   "because",
		}
	}
	return pool
}

func TestStartSession_EmptyPool(t *testing.T) {
	e := quiz.NewEngine(rand.NewSource(1))
	if _, err := e.StartSession(nil); err != quiz.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestStartSession_CapsActiveSet(t *testing.T) {
	e := quiz.NewEngine(rand.NewSource(1))
	for _, n := range []int{1, 3, 15, 16, 40} {
		s, err := e.StartSession(makePool(t, n))
		if err != nil {
			t.Fatalf("pool size %d: unexpected error: %v", n, err)
		}
		want := n
		if want > quiz.MaxActiveQuestions {
			want = quiz.MaxActiveQuestions
		}
		if len(s.Active) != want {
			t.Fatalf("pool size %d: got active set %d, want %d", n, len(s.Active), want)
		}
	}
}

// After shuffling, the option at the remapped index must carry the value
// that was correct before shuffling.
func TestStartSession_RemapRoundTrip(t *testing.T) {
	pool := makePool(t, 30)
	byID := map[string]quiz.QuestionRecord{}
	for _, q := range pool {
		byID[q.ID] = q
	}
	for seed := int64(0); seed < 50; seed++ {
		e := quiz.NewEngine(rand.NewSource(seed))
		s, err := e.StartSession(pool)
		if err != nil {
			t.Fatal(err)
		}
		for _, q := range s.Active {
			orig := byID[q.ID]
			wantVal := orig.Options[orig.CorrectAnswer]
			if got := q.Options[q.CorrectAnswer]; got != wantVal {
				t.Fatalf("seed %d question %s: correct option %q, want %q", seed, q.ID, got, wantVal)
			}
		}
	}
}

// Duplicate option text must not break the remap: the correct index is
// carried by slot, so answering it still scores.
func TestStartSession_DuplicateOptionText(t *testing.T) {
	pool := []quiz.QuestionRecord{{
		ID:            "dup",
		Prompt:        "pick the second O(n)",
		Options:       []string{"O(n)", "O(n)", "O(1)"},
		CorrectAnswer: 1,
	}}
	for seed := int64(0); seed < 20; seed++ {
		e := quiz.NewEngine(rand.NewSource(seed))
		s, err := e.StartSession(pool)
		if err != nil {
			t.Fatal(err)
		}
		q := s.Active[0]
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			t.Fatalf("seed %d: correct index %d out of range", seed, q.CorrectAnswer)
		}
		if q.Options[q.CorrectAnswer] != "O(n)" {
			t.Fatalf("seed %d: remap landed on %q", seed, q.Options[q.CorrectAnswer])
		}
		if err := s.Answer(q.CorrectAnswer); err != nil {
			t.Fatal(err)
		}
		if s.Score != 1 {
			t.Fatalf("seed %d: correct answer did not score", seed)
		}
	}
}

func TestAnswerAdvance_AllCorrect(t *testing.T) {
	e := quiz.NewEngine(rand.NewSource(7))
	s, err := e.StartSession(makePool(t, 10))
	if err != nil {
		t.Fatal(err)
	}
	for !s.Completed {
		if err := s.Answer(s.Active[s.Current].CorrectAnswer); err != nil {
			t.Fatal(err)
		}
		if err := s.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if s.Score != len(s.Active) {
		t.Fatalf("score %d, want %d", s.Score, len(s.Active))
	}
	if err := s.Answer(0); err != quiz.ErrSessionComplete {
		t.Fatalf("answer after completion: got %v", err)
	}
	if err := s.Advance(); err != quiz.ErrSessionComplete {
		t.Fatalf("advance after completion: got %v", err)
	}
}

func TestAnswer_FirstAnswerOnly(t *testing.T) {
	e := quiz.NewEngine(rand.NewSource(3))
	s, err := e.StartSession(makePool(t, 5))
	if err != nil {
		t.Fatal(err)
	}
	correct := s.Active[0].CorrectAnswer
	wrong := (correct + 1) % len(s.Active[0].Options)

	if err := s.Answer(wrong); err != nil {
		t.Fatal(err)
	}
	if s.Score != 0 {
		t.Fatalf("wrong answer scored: %d", s.Score)
	}
	// Second answer is a no-op even if it names the correct option.
	if err := s.Answer(correct); err != nil {
		t.Fatal(err)
	}
	if s.Score != 0 {
		t.Fatalf("second answer changed score: %d", s.Score)
	}
	if *s.Selected != wrong {
		t.Fatalf("second answer changed selection: %d", *s.Selected)
	}
}

func TestAnswer_OutOfRange(t *testing.T) {
	e := quiz.NewEngine(rand.NewSource(3))
	s, err := e.StartSession(makePool(t, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Answer(-1); err != quiz.ErrInvalidOption {
		t.Fatalf("got %v", err)
	}
	if err := s.Answer(len(s.Active[0].Options)); err != quiz.ErrInvalidOption {
		t.Fatalf("got %v", err)
	}
	if s.Selected != nil || s.Score != 0 {
		t.Fatalf("rejected answer mutated session")
	}
}

func TestReset_FreshPermutationSamePool(t *testing.T) {
	e := quiz.NewEngine(rand.NewSource(11))
	pool := makePool(t, 8)
	s, err := e.StartSession(pool)
	if err != nil {
		t.Fatal(err)
	}
	for !s.Completed {
		_ = s.Answer(s.Active[s.Current].CorrectAnswer)
		_ = s.Advance()
	}

	ns, err := e.Reset(s)
	if err != nil {
		t.Fatal(err)
	}
	if ns.Score != 0 || ns.Current != 0 || ns.Completed {
		t.Fatalf("reset session not fresh: score=%d current=%d completed=%v", ns.Score, ns.Current, ns.Completed)
	}
	if ns.ID != s.ID {
		t.Fatalf("reset changed session id")
	}
	// Same multiset of questions as the source pool.
	want := map[string]int{}
	for _, q := range pool {
		want[q.ID]++
	}
	got := map[string]int{}
	for _, q := range ns.Active {
		got[q.ID]++
	}
	if len(got) != len(want) {
		t.Fatalf("active set has %d distinct questions, want %d", len(got), len(want))
	}
	for id, n := range want {
		if got[id] != n {
			t.Fatalf("question %s appears %d times, want %d", id, got[id], n)
		}
	}
}

func TestEndToEnd_SingleQuestion(t *testing.T) {
	pool := []quiz.QuestionRecord{{
		ID:            "m1",
		Prompt:        "1+1?",
		Options:       []string{"1", "2", "3"},
		CorrectAnswer: 1,
		Explanation:   "math",
	}}
	e := quiz.NewEngine(rand.NewSource(5))
	s, err := e.StartSession(pool)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Active) != 1 {
		t.Fatalf("active set %d, want 1", len(s.Active))
	}
	wrong := (s.Active[0].CorrectAnswer + 1) % 3
	if err := s.Answer(wrong); err != nil {
		t.Fatal(err)
	}
	if s.Score != 0 {
		t.Fatalf("score %d, want 0", s.Score)
	}
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	if !s.Completed {
		t.Fatalf("session not complete")
	}
	if got := s.Report(); got != "0 / 1" {
		t.Fatalf("report %q, want %q", got, "0 / 1")
	}
}

func TestView_HidesAnswerUntilSelected(t *testing.T) {
	e := quiz.NewEngine(rand.NewSource(9))
	s, err := e.StartSession(makePool(t, 2))
	if err != nil {
		t.Fatal(err)
	}
	v := s.View()
	if v.CorrectAnswer != nil || v.Explanation != "" {
		t.Fatalf("unanswered view leaks the answer")
	}
	if v.Question == nil || len(v.Question.Options) == 0 {
		t.Fatalf("view missing current question")
	}
	if err := s.Answer(0); err != nil {
		t.Fatal(err)
	}
	v = s.View()
	if v.CorrectAnswer == nil || *v.CorrectAnswer != s.Active[0].CorrectAnswer {
		t.Fatalf("answered view does not reveal the correct index")
	}
	if v.Explanation == "" {
		t.Fatalf("answered view missing explanation")
	}
}
