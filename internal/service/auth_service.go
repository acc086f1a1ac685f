package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vedic_counter/internal/models"
	"vedic_counter/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = time.Hour
	maxUsernameLength = 64
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrNoSigningKey    = errors.New("auth signing key is not configured")
	ErrInvalidUsername = errors.New("username must be 1-64 characters")
	ErrUsernameTaken   = repository.ErrUsernameTaken
)

// AuthConfig comes from the auth.* config keys.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// AuthService issues and verifies the bearer tokens of the counter API.
type AuthService struct {
	authRepo repository.Authorization
	key      []byte
	ttl      time.Duration
}

func NewAuthService(repo repository.Authorization, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{authRepo: repo, key: []byte(cfg.SigningKey), ttl: cfg.TokenTTL}
}

// normalizeUsername trims surrounding blanks; the trimmed form is what the
// event log shows.
func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// SignUp registers a user with a bcrypt hash of password.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return 0, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	return s.authRepo.Create(ctx, username, hash)
}

// Claims identifies the actor recorded against counter events.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// GenerateToken checks the credentials and signs a token for the user.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return "", ErrUserNotFound
	}
	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}
	return s.issueToken(models.Actor{UserID: u.ID, Username: u.Username})
}

// ParseToken verifies accessToken and returns the actor it was issued to.
func (s *AuthService) ParseToken(accessToken string) (models.Actor, error) {
	if len(s.key) == 0 {
		return models.Actor{}, ErrNoSigningKey
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return models.Actor{}, ErrInvalidToken
	}
	return models.Actor{UserID: claims.UserID, Username: claims.Username}, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(a models.Actor) (string, error) {
	if len(s.key) == 0 {
		return "", ErrNoSigningKey
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   a.UserID,
		Username: a.Username,
	})
	return token.SignedString(s.key)
}
