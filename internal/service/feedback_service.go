package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/brightdesk/portal/internal/ingest"
	"github.com/brightdesk/portal/internal/llm"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/repository"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrAnalysisFailed   = errors.New("coaching analysis failed")
)

// ImportSummary reports what a spreadsheet import did.
type ImportSummary struct {
	Imported   int   `json:"imported"`
	Skipped    int   `json:"skipped"`
	Duplicates []int `json:"duplicate_rows"`
}

type FeedbackService interface {
	Create(ctx context.Context, fb *models.Feedback) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Feedback, error)
	Delete(ctx context.Context, id uint) error
	Import(ctx context.Context, userID uint, csvData io.Reader, dropDuplicates bool) (*ImportSummary, error)
	Coach(ctx context.Context, userID uint) (llm.CoachingReport, error)
}

type feedbackService struct {
	repo     repository.FeedbackRepository
	userRepo repository.UserRepository
	llm      *llm.Client
}

func NewFeedbackService(repo repository.FeedbackRepository, userRepo repository.UserRepository, llmClient *llm.Client) FeedbackService {
	return &feedbackService{repo: repo, userRepo: userRepo, llm: llmClient}
}

func (s *feedbackService) Create(ctx context.Context, fb *models.Feedback) error {
	if _, err := s.userRepo.FindByID(ctx, fb.UserID); err != nil {
		return ErrUserNotFound
	}
	return s.repo.Create(ctx, fb)
}

func (s *feedbackService) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Feedback, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *feedbackService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrFeedbackNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Import parses a QA spreadsheet export and stores its rows as feedback
// for one employee. Header columns are guessed, malformed cells become
// empty fields, and with dropDuplicates the repeated rows are skipped.
func (s *feedbackService) Import(ctx context.Context, userID uint, csvData io.Reader, dropDuplicates bool) (*ImportSummary, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}

	header, rows, err := ingest.ReadAll(csvData)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	records, duplicates := ingest.Normalize(header, rows)

	summary := &ImportSummary{Duplicates: make([]int, 0, len(duplicates))}
	batch := make([]models.Feedback, 0, len(records))
	for i, rec := range records {
		if _, dup := duplicates[i]; dup {
			summary.Duplicates = append(summary.Duplicates, i)
			if dropDuplicates {
				summary.Skipped++
				continue
			}
		}

		fb := models.Feedback{
			UserID:   userID,
			Kind:     rec.Kind,
			Category: rec.Category,
			Text:     rec.Text,
			Reviewer: rec.Actor,
		}
		if rec.Timestamp != nil {
			fb.OccurredAt = *rec.Timestamp
		}
		batch = append(batch, fb)
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	summary.Imported = len(batch)
	return summary, nil
}

// Coach builds a coaching report from the employee's recent feedback. The
// result is always well-shaped: on any LLM failure the empty report is
// returned together with ErrAnalysisFailed.
func (s *feedbackService) Coach(ctx context.Context, userID uint) (llm.CoachingReport, error) {
	rows, err := s.ListByUser(ctx, userID, 50)
	if err != nil {
		return llm.EmptyReport(), err
	}
	if len(rows) == 0 {
		return llm.EmptyReport(), nil
	}
	if s.llm == nil {
		return llm.EmptyReport(), fmt.Errorf("%w: no llm configured", ErrAnalysisFailed)
	}

	items := make([]llm.FeedbackItem, len(rows))
	for i, fb := range rows {
		items[i] = llm.FeedbackItem{
			OccurredAt: fb.OccurredAt,
			Kind:       fb.Kind,
			Category:   fb.Category,
			Text:       fb.Text,
		}
	}

	report, err := llm.Coach(ctx, s.llm, items)
	if err != nil {
		log.Printf("[Coaching] analysis failed for user %d: %v", userID, err)
		return llm.EmptyReport(), fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	return report, nil
}
