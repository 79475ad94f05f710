package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-video-api/internal/domain"
	jwtinfra "github.com/go-video-api/internal/infrastructure/jwt"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
	"github.com/go-video-api/internal/pkg/validate"
)

// Tokens is the token pair handed to the client on login and refresh.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User *domain.User `json:"user"`
	Tokens
}

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, p domain.Principal) error
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Rotate(ctx context.Context, sessionID, oldToken, newToken string, expiresAt int64) error
	Revoke(ctx context.Context, sessionID string) error
}

type tokenIssuer interface {
	SignAccess(u *domain.User, sessionID string) (string, error)
	SignRefresh(userID, sessionID string) (string, error)
	VerifyRefresh(tokenStr string) (*jwtinfra.RefreshClaims, error)
}

type service struct {
	userRepo        userStore
	sessionRepo     sessionStore
	tokens          tokenIssuer
	refreshTokenDur time.Duration
	now             func() time.Time
}

type ServiceDeps struct {
	UserRepo        userStore
	SessionRepo     sessionStore
	JWTProvider     tokenIssuer
	RefreshTokenDur time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:        deps.UserRepo,
		sessionRepo:     deps.SessionRepo,
		tokens:          deps.JWTProvider,
		refreshTokenDur: deps.RefreshTokenDur,
		now:             time.Now,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var (
		u   *domain.User
		err error
	)
	if req.Username != "" {
		u, err = s.userRepo.GetByUsername(ctx, req.Username)
	} else {
		u, err = s.userRepo.GetByEmail(ctx, req.Email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("User does not exist")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Unauthorized("Invalid user credentials")
	}

	now := s.now().UTC()
	sess := &domain.Session{
		SessionID: id.New(),
		UserID:    u.UserID,
		Enable:    true,
		ExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	tokens, err := s.issue(u, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.RefreshToken = tokens.RefreshToken
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Tokens: *tokens}, nil
}

func (s *service) Logout(ctx context.Context, p domain.Principal) error {
	if p.SessionID == "" {
		return nil
	}
	return s.sessionRepo.Revoke(ctx, p.SessionID)
}

// Refresh trades a refresh token for a new pair. The presented token must be
// the one the session currently holds, so each refresh token works once.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Wrap(http.StatusUnauthorized, "Invalid refresh token", err)
	}
	sess, err := s.sessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, err
	}
	if !sess.Enable || sess.UserID != claims.UserID || sess.RefreshToken != refreshToken {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, err
	}

	tokens, err := s.issue(u, sess.SessionID)
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.refreshTokenDur).Unix()
	if err := s.sessionRepo.Rotate(ctx, sess.SessionID, refreshToken, tokens.RefreshToken, expiresAt); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, apperr.Unauthorized("Refresh token is expired or used")
		}
		return nil, err
	}
	return tokens, nil
}

func (s *service) issue(u *domain.User, sessionID string) (*Tokens, error) {
	access, err := s.tokens.SignAccess(u, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.SignRefresh(u.UserID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh}, nil
}
