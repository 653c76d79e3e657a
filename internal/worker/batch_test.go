package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarpov/groundcheck/internal/model"
)

// mockChecker implements Checker with canned verdicts
type mockChecker struct {
	failFor map[string]bool
}

func (m *mockChecker) Check(ctx context.Context, question string) (*model.Report, error) {
	if m.failFor[question] {
		return nil, errors.New("pipeline failure")
	}
	return &model.Report{
		Question: question,
		Verdict:  model.Verdict{Score: 0.9, Label: model.LabelGrounded},
	}, nil
}

func TestBatchProcessor_ProcessQuestions(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, 4)

	questions := []string{
		"Who directed the film?",
		"What year did it premiere?",
		"Where was it filmed?",
	}

	results := processor.ProcessQuestions(context.Background(), questions)

	if len(results) != len(questions) {
		t.Fatalf("Expected %d results, got %d", len(questions), len(results))
	}

	seen := make(map[string]bool)
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("Unexpected error for %q: %v", res.Question, res.Error)
		}
		if res.Report == nil || res.Report.Question != res.Question {
			t.Errorf("Expected report bound to its question, got %+v", res.Report)
		}
		seen[res.Question] = true
	}
	for _, q := range questions {
		if !seen[q] {
			t.Errorf("Missing result for question %q", q)
		}
	}
}

func TestBatchProcessor_LargeBatchDoesNotDeadlock(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, 2)

	questions := make([]string, 100)
	for i := range questions {
		questions[i] = strings.Repeat("q", i+1)
	}

	results := processor.ProcessQuestions(context.Background(), questions)

	if len(results) != len(questions) {
		t.Fatalf("Expected %d results, got %d", len(questions), len(results))
	}
}

func TestBatchProcessor_ErrorIsolation(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{
		failFor: map[string]bool{"the failing question": true},
	}, 2)

	results := processor.ProcessQuestions(context.Background(), []string{
		"a healthy question",
		"the failing question",
	})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			if res.Question != "the failing question" {
				t.Errorf("Wrong question failed: %q", res.Question)
			}
		}
	}
	if failures != 1 {
		t.Errorf("Expected exactly 1 failure, got %d", failures)
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, 2)

	results := processor.ProcessQuestions(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("Expected no results for empty input, got %d", len(results))
	}
}

func TestReadQuestionsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.txt")
	content := strings.Join([]string{
		"Who directed the film?",
		"",
		"# a comment line",
		"  What year did it premiere?  ",
		"Who directed the film?",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write questions: %v", err)
	}

	questions, err := ReadQuestionsFromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"Who directed the film?", "What year did it premiere?"}
	if len(questions) != len(want) {
		t.Fatalf("Expected %d questions, got %d: %v", len(want), len(questions), questions)
	}
	for i := range want {
		if questions[i] != want[i] {
			t.Errorf("Question %d: expected %q, got %q", i, want[i], questions[i])
		}
	}
}

func TestReadQuestionsFromFile_Missing(t *testing.T) {
	if _, err := ReadQuestionsFromFile("does/not/exist.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}
