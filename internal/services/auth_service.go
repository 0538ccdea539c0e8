package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

var ErrBadCreds = errors.New("invalid email or password")

const tokenTTL = 7 * 24 * time.Hour

// Claims is the JWT payload: identity only, never the hash.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret)}
}

// Register creates a user and returns it with a fresh session token.
func (s *AuthService) Register(name, email, password string) (*domain.User, string, error) {
	name, ok := validate.Name(name)
	if !ok {
		return nil, "", &ValidationError{Message: "Please provide name, email, and password"}
	}
	email, ok = validate.Email(email)
	if !ok {
		return nil, "", &ValidationError{Message: "Please provide name, email, and password"}
	}
	if !validate.Password(password) {
		return nil, "", &ValidationError{Message: "Password must be at least 6 characters"}
	}

	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", &ValidationError{Message: "User with this email already exists"}
	} else if err != sql.ErrNoRows {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, "", err
	}
	u := domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Hash:  string(hash),
		Role:  domain.RoleUser,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}

	token, err := s.Sign(&u)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

// Login verifies credentials and mints a token. Every failure collapses to
// ErrBadCreds so the response never reveals which part was wrong.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	token, err := s.Sign(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Sign mints an HMAC-SHA256 token carrying the user identity, valid 7 days.
func (s *AuthService) Sign(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify parses a token and returns its claims, rejecting any token not
// signed with our HMAC method.
func (s *AuthService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrBadCreds
	}
	return claims, nil
}

// CurrentUser loads the full user record behind a verified token.
func (s *AuthService) CurrentUser(claims *Claims) (*domain.User, error) {
	return s.Users.ByID(claims.UserID)
}
