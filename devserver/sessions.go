package devserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errTokenRevoked = errors.New("token revoked")
	errTokenExpired = errors.New("token expired")
)

// sessionClaims are the claims carried by tokens issued at /api/login.
type sessionClaims struct {
	gojwt.RegisteredClaims
}

// sessions issues and verifies HS256 session tokens and tracks revocations.
type sessions struct {
	key []byte
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	revoked map[string]time.Time // token id -> expiry
}

func newSessions(secret string, ttl time.Duration) (*sessions, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("devserver: generate token secret: %w", err)
		}
	}
	return &sessions{
		key:     key,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// issue signs a token for user valid for the configured TTL.
func (s *sessions) issue(user string) (string, error) {
	now := s.now()
	claims := &sessionClaims{RegisteredClaims: gojwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   user,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
	}}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("devserver: sign token: %w", err)
	}
	return signed, nil
}

// verify parses token and reports errTokenExpired or errTokenRevoked for
// credentials that were valid once. Any other error means the token is not ours.
func (s *sessions) verify(token string) (*sessionClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	_, revoked := s.revoked[claims.ID]
	s.mu.RUnlock()
	if revoked {
		return claims, errTokenRevoked
	}
	return claims, nil
}

// revoke invalidates token until it would have expired anyway. Expired
// tokens need no entry.
func (s *sessions) revoke(token string) error {
	claims, err := s.parse(token)
	if errors.Is(err, errTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

func (s *sessions) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, gojwt.ErrTokenExpired) {
		return nil, errTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("devserver: parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("devserver: invalid token")
	}
	return claims, nil
}

func (s *sessions) keyFunc(*gojwt.Token) (interface{}, error) {
	return s.key, nil
}
