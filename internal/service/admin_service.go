package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brightdesk/portal/internal/ingest"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email is already in use")
	ErrTaxonomyNotFound = errors.New("taxonomy entry not found")
	ErrLabelTaken       = errors.New("label already exists for this kind")
)

// RosterSummary reports what a roster upload did.
type RosterSummary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type AdminService interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ImportRoster(ctx context.Context, csvData io.Reader) (*RosterSummary, error)

	CreateTaxonomy(ctx context.Context, tax *models.Taxonomy) error
	ListTaxonomies(ctx context.Context, kind *models.TaxonomyKind) ([]models.Taxonomy, error)
	DeleteTaxonomy(ctx context.Context, id uint) error

	UpsertKPI(ctx context.Context, kpi *models.KPI) error
	ListKPIs(ctx context.Context, period string) ([]models.KPI, error)
	DeleteKPI(ctx context.Context, id uint) error
}

type adminService struct {
	userRepo   repository.UserRepository
	taxRepo    repository.TaxonomyRepository
	kpiRepo    repository.KPIRepository
	bcryptCost int
}

func NewAdminService(userRepo repository.UserRepository, taxRepo repository.TaxonomyRepository, kpiRepo repository.KPIRepository, bcryptCost int) AdminService {
	return &adminService{
		userRepo:   userRepo,
		taxRepo:    taxRepo,
		kpiRepo:    kpiRepo,
		bcryptCost: bcryptCost,
	}
}

func (s *adminService) CreateUser(ctx context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *adminService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *adminService) UpdateUser(ctx context.Context, user *models.User) error {
	existing, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return ErrUserNotFound
	}
	// Password changes go through a dedicated flow, keep the hash
	user.PasswordHash = existing.PasswordHash
	return s.userRepo.Update(ctx, user)
}

// ImportRoster creates member accounts from an HR spreadsheet export.
// Rows without a usable email, and emails that already exist, are skipped.
// Imported accounts get a random placeholder password; people log in after
// a reset.
func (s *adminService) ImportRoster(ctx context.Context, csvData io.Reader) (*RosterSummary, error) {
	header, rows, err := ingest.ReadAll(csvData)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	records, _ := ingest.Normalize(header, rows)

	summary := &RosterSummary{}
	for _, rec := range records {
		if rec.Email == "" {
			summary.Skipped++
			continue
		}
		if _, err := s.userRepo.FindByEmail(ctx, rec.Email); err == nil {
			summary.Skipped++
			continue
		}

		name := strings.TrimSpace(rec.FirstName + " " + rec.LastName)
		if name == "" {
			name = rec.Email
		}

		user := &models.User{
			Email: rec.Email,
			Name:  name,
			Role:  models.RoleMember,
		}
		if err := s.CreateUser(ctx, user, uuid.NewString()); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				summary.Skipped++
				continue
			}
			return nil, err
		}
		summary.Created++
	}
	return summary, nil
}

func (s *adminService) CreateTaxonomy(ctx context.Context, tax *models.Taxonomy) error {
	if err := s.taxRepo.Create(ctx, tax); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrLabelTaken
		}
		return err
	}
	return nil
}

func (s *adminService) ListTaxonomies(ctx context.Context, kind *models.TaxonomyKind) ([]models.Taxonomy, error) {
	return s.taxRepo.List(ctx, kind)
}

func (s *adminService) DeleteTaxonomy(ctx context.Context, id uint) error {
	if _, err := s.taxRepo.FindByID(ctx, id); err != nil {
		return ErrTaxonomyNotFound
	}
	return s.taxRepo.Delete(ctx, id)
}

func (s *adminService) UpsertKPI(ctx context.Context, kpi *models.KPI) error {
	return s.kpiRepo.Upsert(ctx, kpi)
}

func (s *adminService) ListKPIs(ctx context.Context, period string) ([]models.KPI, error) {
	return s.kpiRepo.List(ctx, period)
}

func (s *adminService) DeleteKPI(ctx context.Context, id uint) error {
	return s.kpiRepo.Delete(ctx, id)
}
