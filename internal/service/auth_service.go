// Package service contains the business logic layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paydrop/internal/models"
	"paydrop/internal/repository"
	"paydrop/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the JWT payload for both access and refresh tokens. TokenType
// keeps the two kinds from being used interchangeably.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is the response body for login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RegisterInput carries the fields for admin registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService handles admin registration, login and token lifecycle.
type AuthService struct {
	adminRepo  repository.AdminRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates an AuthService.
func NewAuthService(adminRepo repository.AdminRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new admin account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.Admin, error) {
	if err := validation.ValidateName(input.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	admin := &models.Admin{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login verifies credentials and issues an access/refresh token pair. The
// error message is identical for unknown email and wrong password so the
// endpoint cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, models.NewUnauthorizedError("Incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Incorrect email or password")
	}
	return s.issueTokenPair(admin.ID)
}

// Refresh exchanges a valid refresh token for a new access token. The
// original refresh token is returned unchanged; it stays valid until expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	adminID, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	// The account may have been removed since the token was issued.
	if _, err := s.adminRepo.GetByID(ctx, adminID); err != nil {
		return nil, models.NewUnauthorizedError("Invalid refresh token")
	}

	access, err := s.signToken(adminID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Authenticate validates an access token and loads the admin it belongs to.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.Admin, error) {
	adminID, err := s.parseToken(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	return admin, nil
}

// IssueTokens creates a fresh token pair for an already-verified admin, as
// after registration.
func (s *AuthService) IssueTokens(adminID uuid.UUID) (*TokenPair, error) {
	return s.issueTokenPair(adminID)
}

func (s *AuthService) issueTokenPair(adminID uuid.UUID) (*TokenPair, error) {
	access, err := s.signToken(adminID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.signToken(adminID, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) signToken(adminID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenString, wantType string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, models.NewUnauthorizedError("Token has expired")
		}
		return uuid.Nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if !token.Valid || claims.TokenType != wantType {
		return uuid.Nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	return adminID, nil
}
