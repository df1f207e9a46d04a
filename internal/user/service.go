package user

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

type Service struct {
	repo    Repository
	lockout Lockout
	secret  []byte
	now     func() time.Time
}

// NewService wires the identity service. A nil lockout falls back to
// in-memory counters with the default limits.
func NewService(repo Repository, jwtSecret string, lockout Lockout) *Service {
	if lockout == nil {
		lockout = NewMemoryLockout(DefaultMaxAttempts, DefaultLockout)
	}
	return &Service{repo: repo, lockout: lockout, secret: []byte(jwtSecret), now: time.Now}
}

func (s *Service) GetByID(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Register(ctx context.Context, user User) (User, error) {
	user.Email = normalizeEmail(user.Email)
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user.Password = string(hashed)
	return s.repo.Create(ctx, user)
}

// Authenticate checks credentials and enforces the sign-in lockout for the
// email being tried, whether or not an account exists for it.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	key := normalizeEmail(email)

	retry, err := s.lockout.RetryAfter(ctx, key)
	if err != nil {
		log.Printf("lockout check failed key=%s err=%v", key, err)
	}
	if retry > 0 {
		return User{}, &LockedError{RetryAfter: retry}
	}

	user, err := s.repo.GetByEmail(ctx, key)
	if err == nil && bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
		if err := s.lockout.Reset(ctx, key); err != nil {
			log.Printf("lockout reset failed key=%s err=%v", key, err)
		}
		return user, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	locked, lerr := s.lockout.RecordFailure(ctx, key)
	if lerr != nil {
		log.Printf("lockout record failed key=%s err=%v", key, lerr)
	}
	if locked > 0 {
		log.Printf("sign-in locked key=%s duration=%s", key, locked)
		return User{}, &LockedError{RetryAfter: locked}
	}
	return User{}, ErrInvalidCredentials
}

// IssueToken signs an HS256 session token carrying the identity claims read
// by checkout and the order pages.
func (s *Service) IssueToken(user User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.DisplayName(),
		"exp":     s.now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
