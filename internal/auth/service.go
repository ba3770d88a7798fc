package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

type usersRepo interface {
	Add(ctx context.Context, user User, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, string, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type Service struct {
	repo       usersRepo
	tokens     *TokenManager
	revoker    tokenRevoker
	adminEmail string
}

func NewService(
	repo usersRepo,
	tokens *TokenManager,
	revoker tokenRevoker,
	adminEmail string,
) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		revoker:    revoker,
		adminEmail: NormalizeEmail(adminEmail),
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email := NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, pkg.NewValidationError("email, password and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkg.NewValidationError("invalid email")
	}

	role := RoleUser
	if strings.EqualFold(strings.TrimSpace(req.Role), RoleAdmin) {
		if s.adminEmail != "" && email == s.adminEmail {
			role = RoleAdmin
		} else {
			log.Warnf("register: admin role requested by [%s], granting %s", email, RoleUser)
		}
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Add(ctx, User{
		Email: email,
		Name:  name,
		Role:  role,
	}, passwordHash)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (_ *LoginResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkg.NewValidationError("email and password are required")
	}

	user, passwordHash, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(req.Password, passwordHash) {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	return &LoginResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (_ *Claims, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revoked: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Logout revokes the token the claims came from, until its expiry.
func (s *Service) Logout(ctx context.Context, claims *Claims) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	if s.revoker == nil {
		return errors.New("token revocation not configured")
	}

	ttl := claims.ExpiresAt.Sub(s.tokens.NowFunc())
	return s.revoker.Revoke(ctx, claims.ID, ttl)
}
