package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stockdesk/stockdesk/internal/api"
)

// ErrEmptyToken is returned when a login succeeds without a token.
var ErrEmptyToken = errors.New("login returned no token")

// Credentials is the login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the login result.
type Session struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Profile is the signed-in user.
type Profile struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	FullName  string   `json:"fullName,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	Active    *bool    `json:"active,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// DisplayName returns the full name, falling back to first+last, then the username.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		return name
	}
	return p.Username
}

// AuthService signs in and reads the current profile.
type AuthService struct {
	client *api.Client
}

// NewAuthService binds the auth endpoints to a client.
func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a bearer token. The client is not modified.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (Session, error) {
	var out Session
	if err := s.client.Post(ctx, "/api/auth/login", creds, &out); err != nil {
		return out, fmt.Errorf("login as %s: %w", creds.Username, err)
	}
	if out.Token == "" {
		return out, ErrEmptyToken
	}
	return out, nil
}

// Profile returns the user the client's token belongs to.
func (s *AuthService) Profile(ctx context.Context) (Profile, error) {
	var out Profile
	if err := s.client.Get(ctx, "/api/auth/profile", nil, &out); err != nil {
		return out, fmt.Errorf("reading profile: %w", err)
	}
	return out, nil
}
