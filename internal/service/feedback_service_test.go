package service

import (
	"context"
	"strings"
	"testing"

	"github.com/brightdesk/portal/internal/llm"
	"github.com/brightdesk/portal/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockFeedbackRepo struct {
	rows   []models.Feedback
	nextID uint
}

func (m *mockFeedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	m.nextID++
	fb.ID = m.nextID
	m.rows = append(m.rows, *fb)
	return nil
}

func (m *mockFeedbackRepo) CreateBatch(ctx context.Context, fbs []models.Feedback) error {
	for i := range fbs {
		m.nextID++
		fbs[i].ID = m.nextID
	}
	m.rows = append(m.rows, fbs...)
	return nil
}

func (m *mockFeedbackRepo) FindByID(ctx context.Context, id uint) (*models.Feedback, error) {
	for _, fb := range m.rows {
		if fb.ID == id {
			row := fb
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeedbackRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, fb := range m.rows {
		if fb.UserID == userID {
			out = append(out, fb)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockFeedbackRepo) Delete(ctx context.Context, id uint) error {
	for i, fb := range m.rows {
		if fb.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func feedbackFixture() (FeedbackService, *mockFeedbackRepo) {
	repo := &mockFeedbackRepo{}
	users := &mockUserRepo{byEmail: map[string]*models.User{
		"anna@example.com": {ID: 7, Email: "anna@example.com", Active: true},
	}}
	return NewFeedbackService(repo, users, nil), repo
}

const sampleCSV = `Datum,Art,Kategorie,Kommentar,Mitarbeiter
2026-02-01,praise,tone,Great call handling,Reviewer A
2026-02-01,praise,tone,Great call handling,Reviewer A
2026-02-02,complaint,process,Missed the follow-up,Reviewer B
`

func TestImport_GermanHeaders(t *testing.T) {
	svc, repo := feedbackFixture()

	summary, err := svc.Import(context.Background(), 7, strings.NewReader(sampleCSV), false)

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, []int{1}, summary.Duplicates)
	assert.Len(t, repo.rows, 3)
	assert.Equal(t, "praise", repo.rows[0].Kind)
	assert.Equal(t, "Reviewer B", repo.rows[2].Reviewer)
}

func TestImport_DropDuplicates(t *testing.T) {
	svc, repo := feedbackFixture()

	summary, err := svc.Import(context.Background(), 7, strings.NewReader(sampleCSV), true)

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	assert.Len(t, repo.rows, 2)
}

func TestImport_UnknownUser(t *testing.T) {
	svc, _ := feedbackFixture()

	_, err := svc.Import(context.Background(), 999, strings.NewReader(sampleCSV), false)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCoach_NoFeedbackYieldsEmptyReport(t *testing.T) {
	svc, _ := feedbackFixture()

	report, err := svc.Coach(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, llm.EmptyReport(), report)
}

func TestCoach_NoLLMConfigured(t *testing.T) {
	svc, repo := feedbackFixture()
	repo.rows = append(repo.rows, models.Feedback{ID: 1, UserID: 7, Kind: "praise", Text: "good"})

	report, err := svc.Coach(context.Background(), 7)

	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, llm.EmptyReport(), report)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := feedbackFixture()

	err := svc.Delete(context.Background(), 42)

	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}
