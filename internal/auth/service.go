package auth

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const revokedPrefix = "admin:revoked:"

type Service struct {
	secret       []byte
	passwordHash []byte
	ttl          time.Duration
	redis        *redis.Client
}

// NewService gates admin views behind one shared password. passwordHash is
// a bcrypt hash; rdb may be nil, in which case Lock only clears the cookie.
func NewService(secret string, passwordHash []byte, ttl time.Duration, rdb *redis.Client) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		secret:       []byte(secret),
		passwordHash: passwordHash,
		ttl:          ttl,
		redis:        rdb,
	}
}

// HashPassword returns a bcrypt hash for the admin password.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// ResolveHash prefers a configured hash and falls back to hashing the
// plaintext password once at startup.
func ResolveHash(hash, plain string) ([]byte, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return []byte(hash), nil
	}
	if plain == "" {
		return nil, ErrPasswordRequired
	}
	return HashPassword(plain)
}

func (s *Service) Unlock(_ context.Context, password string) (Session, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return Session{}, ErrPasswordRequired
	}
	if len(s.passwordHash) == 0 || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return Session{}, ErrIncorrectPassword
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	if s.redis != nil {
		n, err := s.redis.Exists(ctx, revokedPrefix+claims.ID).Result()
		if err != nil {
			// fail closed: an unreachable revocation list locks the gate
			return nil, err
		}
		if n > 0 {
			return nil, ErrSessionRevoked
		}
	}
	return claims, nil
}

// Lock revokes the session for the rest of its lifetime. Tokens that no
// longer parse are already useless and are ignored.
func (s *Service) Lock(ctx context.Context, token string) error {
	if token == "" || s.redis == nil {
		return nil
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedPrefix+claims.ID, "1", ttl).Err(); err != nil {
		log.Printf("admin session revoke error: %v", err)
		return err
	}
	return nil
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !claims.Admin || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}
