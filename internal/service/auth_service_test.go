package service

import (
	"context"
	"testing"
	"time"

	"github.com/brightdesk/portal/internal/models"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.ID = uint(len(m.byEmail) + 1)
	m.byEmail[user.Email] = user
	return nil
}
func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) FindAll(ctx context.Context) ([]models.User, error)   { return nil, nil }
func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func authFixture(t *testing.T) AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	assert.NoError(t, err)

	repo := &mockUserRepo{byEmail: map[string]*models.User{
		"anna@example.com": {
			ID:           7,
			Email:        "anna@example.com",
			Name:         "Anna",
			Role:         models.RoleAdmin,
			Active:       true,
			PasswordHash: string(hash),
		},
		"gone@example.com": {
			ID:           8,
			Email:        "gone@example.com",
			Role:         models.RoleMember,
			Active:       false,
			PasswordHash: string(hash),
		},
	}}
	return NewAuthService(repo, "test-secret", time.Hour)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := authFixture(t)

	token, user, err := svc.Login(context.Background(), "anna@example.com", "hunter2")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(7), user.ID)

	claims, err := svc.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := authFixture(t)

	_, _, err := svc.Login(context.Background(), "anna@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := authFixture(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc := authFixture(t)

	_, _, err := svc.Login(context.Background(), "gone@example.com", "hunter2")

	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestParseToken_Garbage(t *testing.T) {
	svc := authFixture(t)

	_, err := svc.ParseToken("not.a.token")

	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	svc := authFixture(t)
	other := NewAuthService(&mockUserRepo{}, "different-secret", time.Hour)

	token, _, err := svc.Login(context.Background(), "anna@example.com", "hunter2")
	assert.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}
