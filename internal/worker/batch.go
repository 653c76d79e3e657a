package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mkarpov/groundcheck/internal/model"
)

// Checker defines the interface for running one grounding check
type Checker interface {
	Check(ctx context.Context, question string) (*model.Report, error)
}

// CheckJob represents a single-question check job
type CheckJob struct {
	Question string
	Checker  Checker
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	report, err := j.Checker.Check(ctx, j.Question)
	if err != nil {
		return &CheckResult{
			Question: j.Question,
			Report:   nil,
			Error:    err,
		}
	}
	return &CheckResult{
		Question: j.Question,
		Report:   report,
		Error:    nil,
	}
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Question string
	Report   *model.Report
	Error    error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple questions concurrently. Each question
// runs through an independent pipeline execution; nothing mutable is shared
// between jobs.
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessQuestions processes multiple questions concurrently
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []string) []*CheckResult {
	if len(questions) == 0 {
		return []*CheckResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	// Submit from a goroutine so large batches cannot deadlock against the
	// pool's bounded queues while results wait to be drained.
	go func() {
		for _, q := range questions {
			pool.Submit(&CheckJob{
				Question: q,
				Checker:  b.checker,
			})
		}
		pool.Finish()
	}()

	results := pool.Drain()

	checkResults := make([]*CheckResult, len(results))
	for i, result := range results {
		checkResults[i] = result.(*CheckResult)
	}

	return checkResults
}

// ProcessFile reads questions from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	questions, err := ReadQuestionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	return b.ProcessQuestions(ctx, questions), nil
}

// ReadQuestionsFromFile reads questions from a file (one per line)
func ReadQuestionsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var questions []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate questions
		if !seen[line] {
			seen[line] = true
			questions = append(questions, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return questions, nil
}
