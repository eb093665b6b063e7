package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Claims are the JWT claims carried by an admin session token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Service implements admin sign-in and token verification.
type Service struct {
	repo        Repository
	secret      []byte
	ttl         time.Duration
	broadcaster *Broadcaster
	logger      *logging.Logger
	clock       func() time.Time
}

// NewService creates an auth service. broadcaster may be nil.
func NewService(repo Repository, secret string, ttl time.Duration, broadcaster *Broadcaster, logger *logging.Logger) *Service {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:        repo,
		secret:      []byte(secret),
		ttl:         ttl,
		broadcaster: broadcaster,
		logger:      logger,
		clock:       time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// SignIn verifies the credentials and mints a session token. Unknown
// email and wrong password return the same error.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: sign in: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed sign-in attempt", "email", user.Email)
		return nil, ErrInvalidCredentials
	}

	now := s.clock()
	expires := now.Add(s.ttl)
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}

	s.logger.Info("admin signed in", "email", user.Email)
	s.broadcaster.Publish(SessionEvent{Type: EventSignedIn, Email: user.Email})

	// The session carries a copy of the account; the hash stays in the
	// repository.
	account := *user
	account.PasswordHash = ""
	return &Session{Token: token, ExpiresAt: expires, User: account}, nil
}

// SignOut announces the end of a session. Tokens are stateless, so this
// only notifies listening dashboards.
func (s *Service) SignOut(ctx context.Context, claims *Claims) {
	if claims == nil {
		return
	}
	s.logger.Info("admin signed out", "email", claims.Email)
	s.broadcaster.Publish(SessionEvent{Type: EventSignedOut, Email: claims.Email})
}

// Verify parses and validates a session token.
func (s *Service) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.clock() }))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
