package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/nkiryanov/authsvc/internal/apperrors"
	"github.com/nkiryanov/authsvc/internal/models"
	"github.com/nkiryanov/authsvc/internal/repository"
)

const (
	defaultCookieName = "session"
	minPasswordLen    = 6
)

type Config struct {
	// Hasher to use during user registration or login
	// DefaultHasher is used if not set
	Hasher PasswordHasher

	// Name of the cookie that carries the session token
	CookieName string
}

// Auth service
// Stateless across requests, everything lives in the repositories
type AuthService struct {
	hasher      PasswordHasher
	cookieName  string
	userRepo    repository.UserRepo
	sessionRepo repository.SessionRepo
}

func NewService(cfg Config, userRepo repository.UserRepo, sessionRepo repository.SessionRepo) (*AuthService, error) {
	if userRepo == nil || sessionRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = defaultCookieName
	}

	return &AuthService{
		hasher:      hasher,
		cookieName:  cookieName,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}, nil
}

// Validate raw credentials and return the username to use for storage and lookup
// Username is trimmed before any further use, so whitespace padded usernames
// can't create duplicate looking accounts
// Password length is counted in runes, not bytes
func validateCredentials(username string, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperrors.ErrUsernameEmpty
	}

	if utf8.RuneCountInString(password) < minPasswordLen {
		return "", apperrors.ErrPasswordTooWeak
	}

	return username, nil
}

func (s *AuthService) Register(ctx context.Context, username string, password string) (models.User, error) {
	var user models.User

	username, err := validateCredentials(username, password)
	if err != nil {
		return user, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	// No pre-check for the username here: the unique constraint decides,
	// so concurrent registrations can't both win
	return s.userRepo.CreateUser(ctx, username, hash)
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (models.User, models.Session, error) {
	var session models.Session

	username, err := validateCredentials(username, password)
	if err != nil {
		return models.User{}, session, err
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.User{}, session, apperrors.ErrInvalidCredentials
		}
		return models.User{}, session, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return models.User{}, session, apperrors.ErrInvalidCredentials
	}

	token, err := NewSessionToken()
	if err != nil {
		return models.User{}, session, err
	}

	session, err = s.sessionRepo.SaveSession(ctx, token, user.ID)
	if err != nil {
		return models.User{}, session, fmt.Errorf("can't save session. Err: %w", err)
	}

	return user, session, nil
}

// Logout deletes the session if the token is present
// Unknown or empty tokens are fine, logout never complains
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return s.sessionRepo.DeleteSession(ctx, token)
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, apperrors.ErrAuthRequired
	}

	user, err := s.userRepo.GetUserBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return user, apperrors.ErrAuthRequired
		}
		return user, err
	}

	return user, nil
}

// Set session cookie on response
// Cookie lives until explicit logout, no Max-Age on purpose
func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Instruct the client to drop the session cookie
func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// Get session token from request cookie, empty string when absent
func (s *AuthService) ReadSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
