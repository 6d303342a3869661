package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
	"bomberquiz/internal/session"
	"bomberquiz/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows. They match apperrors.ErrUnauthorized or ErrForbidden.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", apperrors.ErrUnauthorized)

	ErrAdminRequired = fmt.Errorf("%w: admin role required", apperrors.ErrForbidden)
)

// AuthService handles user auth logic
type AuthService struct {
	userRepo repository.UserRepository
	users    Users
	sessions session.Store
	v        *validation.Validator
	audit    AuditLog

	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, users Users, sessions session.Store, v *validation.Validator, audit AuditLog, opts AuthOptions) *AuthService {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		userRepo:   userRepo,
		users:      users,
		sessions:   sessions,
		v:          v,
		audit:      audit,
		signingKey: []byte(opts.SigningKey),
		tokenTTL:   ttl,
		now:        time.Now,
	}
}

// Claims defines JWT claims. Subject holds the user id and ID the token id.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// SignUp registers a regular user; the role is never taken from the payload.
func (s *AuthService) SignUp(ctx context.Context, in models.SignUpInput) (*models.User, error) {
	return s.users.Create(ctx, in.CreateInput())
}

// Login validates credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, p models.LoginProps) (*models.UserLogged, error) {
	p.Email = validation.NormalizeEmail(p.Email)
	if err := s.v.Struct(p); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, p.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}

	s.audit.Record(WithActor(ctx, u.ID), models.AuditEvent{
		Action:      models.AuditLogin,
		Entity:      models.EntitySession,
		EntityID:    u.ID,
		Description: "user logged in",
	})
	return &models.UserLogged{User: *u, Token: token, ExpiresAt: expiresAt}, nil
}

// ParseToken verifies signature, expiry and revocation and returns the session
// of the account the token was issued to, with its current role.
func (s *AuthService) ParseToken(ctx context.Context, accessToken string) (*models.Session, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	// the stored account is authoritative for existence and role
	u, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("load token subject: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
	}

	return &models.Session{
		UserID:    u.ID,
		Role:      u.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session's token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, sess models.Session) error {
	if err := s.sessions.Revoke(ctx, sess.TokenID, sess.ExpiresAt.Sub(s.now())); err != nil {
		return err
	}
	s.audit.Record(WithActor(ctx, sess.UserID), models.AuditEvent{
		Action:      models.AuditLogout,
		Entity:      models.EntitySession,
		EntityID:    sess.UserID,
		Description: "user logged out",
	})
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotRegisteredError(entityUser)
	}
	return u, nil
}

// ChangePassword requires the current password and replaces it with a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in models.ChangePasswordInput) error {
	if err := s.v.Struct(in); err != nil {
		return err
	}
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if err := verifyPassword(u.PasswordHash, in.CurrentPassword); err != nil {
		return apperrors.NewInvalidParamError("current_password", "is incorrect")
	}

	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotRegisteredError(entityUser)
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.audit.Record(WithActor(ctx, userID), models.AuditEvent{
		Action:      models.AuditUpdate,
		Entity:      models.EntityUser,
		EntityID:    userID,
		Description: "password changed",
	})
	return nil
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(u *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: u.Role,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt.UTC().Truncate(time.Second), nil
}
