package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/repository"
	"github.com/brightdesk/portal/pkg/rabbitmq"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type NewsService interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, categoryID *uint, limit, offset int) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post, actorID uint, actorRole models.Role) error
	DeletePost(ctx context.Context, id uint, actorID uint, actorRole models.Role) error
}

type newsService struct {
	repo      repository.PostRepository
	publisher *rabbitmq.Publisher
}

func NewNewsService(repo repository.PostRepository, publisher *rabbitmq.Publisher) NewsService {
	return &newsService{repo: repo, publisher: publisher}
}

func (s *newsService) CreatePost(ctx context.Context, post *models.Post) error {
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Same title posted twice: disambiguate instead of failing
			post.Slug = fmt.Sprintf("%s-%s", post.Slug, uuid.NewString()[:8])
			if err := s.repo.Create(ctx, post); err != nil {
				return err
			}
		} else {
			return err
		}
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(rabbitmq.KeyNewsPublished, map[string]any{
			"post_id": post.ID,
			"slug":    post.Slug,
			"title":   post.Title,
		})
	}
	return nil
}

func (s *newsService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *newsService) ListPosts(ctx context.Context, categoryID *uint, limit, offset int) ([]models.Post, error) {
	return s.repo.List(ctx, categoryID, limit, offset)
}

func (s *newsService) UpdatePost(ctx context.Context, post *models.Post, actorID uint, actorRole models.Role) error {
	existing, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		return ErrPostNotFound
	}
	if err := requirePostOwnership(existing, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.Update(ctx, post)
}

func (s *newsService) DeletePost(ctx context.Context, id uint, actorID uint, actorRole models.Role) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrPostNotFound
	}
	if err := requirePostOwnership(existing, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func requirePostOwnership(post *models.Post, actorID uint, actorRole models.Role) error {
	if actorRole == models.RoleAdmin {
		return nil
	}
	if post.AuthorID != nil && *post.AuthorID == actorID {
		return nil
	}
	return ErrForbidden
}

// Slugify lowercases the title and collapses everything that is not a
// letter or digit into single dashes.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
