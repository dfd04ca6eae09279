package service

import (
	"context"
	"testing"
	"time"

	"paydrop/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "unit-test-secret-key-0123456789abcdef"

func newTestAuthService(repo *adminRepoStub) *AuthService {
	return NewAuthService(repo, testSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestRegisterHashesPassword(t *testing.T) {
	var created *models.Admin
	repo := noopAdminRepo()
	repo.createFn = func(_ context.Context, admin *models.Admin) error {
		admin.ID = uuid.New()
		created = admin
		return nil
	}
	svc := newTestAuthService(repo)

	admin, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "pw12345678",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "ada@example.com", admin.Email)
	assert.NotEqual(t, "pw12345678", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("pw12345678")))
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(noopAdminRepo())

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"short name", RegisterInput{Name: "A", Email: "a@example.com", Password: "pw12345678"}},
		{"bad email", RegisterInput{Name: "Ada", Email: "not-an-email", Password: "pw12345678"}},
		{"short password", RegisterInput{Name: "Ada", Email: "a@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, 400, models.HTTPStatus(err))
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.DefaultCost)
	require.NoError(t, err)
	adminID := uuid.New()

	repo := noopAdminRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.Admin, error) {
		return &models.Admin{ID: adminID, Email: email, PasswordHash: string(hash)}, nil
	}
	svc := newTestAuthService(repo)

	pair, err := svc.Login(context.Background(), "ada@example.com", "pw12345678")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestLoginWrongCredentialsSameMessage(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := noopAdminRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.Admin, error) {
		if email == "known@example.com" {
			return &models.Admin{ID: uuid.New(), Email: email, PasswordHash: string(hash)}, nil
		}
		return nil, nil
	}
	svc := newTestAuthService(repo)

	_, errUnknown := svc.Login(context.Background(), "missing@example.com", "pw12345678")
	_, errWrongPw := svc.Login(context.Background(), "known@example.com", "wrong-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	assert.Equal(t, 401, models.HTTPStatus(errUnknown))
}

func TestAuthenticateRoundTrip(t *testing.T) {
	adminID := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.DefaultCost)

	repo := noopAdminRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.Admin, error) {
		return &models.Admin{ID: adminID, Email: email, PasswordHash: string(hash)}, nil
	}
	repo.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Admin, error) {
		require.Equal(t, adminID, id)
		return &models.Admin{ID: id, Email: "ada@example.com"}, nil
	}
	svc := newTestAuthService(repo)

	pair, err := svc.Login(context.Background(), "ada@example.com", "pw12345678")
	require.NoError(t, err)

	admin, err := svc.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, adminID, admin.ID)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	adminID := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.DefaultCost)

	repo := noopAdminRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.Admin, error) {
		return &models.Admin{ID: adminID, Email: email, PasswordHash: string(hash)}, nil
	}
	svc := newTestAuthService(repo)

	pair, err := svc.Login(context.Background(), "ada@example.com", "pw12345678")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 401, models.HTTPStatus(err))
}

func TestRefreshKeepsRefreshToken(t *testing.T) {
	adminID := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.DefaultCost)

	repo := noopAdminRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.Admin, error) {
		return &models.Admin{ID: adminID, Email: email, PasswordHash: string(hash)}, nil
	}
	repo.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Admin, error) {
		return &models.Admin{ID: id}, nil
	}
	svc := newTestAuthService(repo)

	pair, err := svc.Login(context.Background(), "ada@example.com", "pw12345678")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	adminID := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.DefaultCost)

	repo := noopAdminRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.Admin, error) {
		return &models.Admin{ID: adminID, Email: email, PasswordHash: string(hash)}, nil
	}
	svc := newTestAuthService(repo)

	pair, err := svc.Login(context.Background(), "ada@example.com", "pw12345678")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, 401, models.HTTPStatus(err))
}

func TestAuthenticateExpiredToken(t *testing.T) {
	repo := noopAdminRepo()
	svc := NewAuthService(repo, testSecret, -time.Minute, 7*24*time.Hour)

	token, err := svc.signToken(uuid.New(), tokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestAuthenticateTamperedToken(t *testing.T) {
	svc := newTestAuthService(noopAdminRepo())
	other := NewAuthService(noopAdminRepo(), "a-completely-different-secret-value", 15*time.Minute, time.Hour)

	token, err := other.signToken(uuid.New(), tokenTypeAccess, 15*time.Minute)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, 401, models.HTTPStatus(err))
}
