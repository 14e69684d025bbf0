// Package auth authenticates catalog clients and assigns them a role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthMethod represents the authentication method used.
type AuthMethod string

const (
	// AuthMethodNone indicates no authentication.
	AuthMethodNone AuthMethod = "none"
	// AuthMethodBasic indicates HTTP Basic authentication.
	AuthMethodBasic AuthMethod = "basic"
	// AuthMethodAPIKey indicates API key authentication.
	AuthMethodAPIKey AuthMethod = "apikey"
	// AuthMethodMulti indicates multi-method authentication.
	AuthMethodMulti AuthMethod = "multi"
)

// Role limits what an authenticated client may do with the catalog.
type Role string

const (
	// RoleViewer may read and navigate the catalog.
	RoleViewer Role = "viewer"
	// RoleEditor may also add, update, delete, save and load.
	RoleEditor Role = "editor"
)

// AuthInfo holds authenticated identity information.
type AuthInfo struct {
	Method  AuthMethod
	Subject string
	Role    Role
}

// CanWrite reports whether the identity may mutate the catalog.
func (i *AuthInfo) CanWrite() bool {
	return i != nil && i.Role == RoleEditor
}

// Authenticator validates a request and returns auth info.
type Authenticator interface {
	Authenticate(r *http.Request) (*AuthInfo, error)
	Method() AuthMethod
}

// Sentinel errors for authentication failures.
var (
	ErrUnauthenticated    = errors.New("unauthenticated: no credentials provided")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden: role does not allow this operation")
	ErrInvalidRole        = errors.New("role must be viewer or editor")
)

type contextKey string

const authInfoKey contextKey = "auth_info"

// FromContext retrieves AuthInfo from the context.
func FromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authInfoKey).(*AuthInfo)
	return info, ok
}

// WithAuthInfo stores AuthInfo in the context.
func WithAuthInfo(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authInfoKey, info)
}

// ParseRole parses a role name. An empty name means RoleEditor so that
// two-field credential entries keep full access.
func ParseRole(name string) (Role, error) {
	switch Role(strings.TrimSpace(name)) {
	case "", RoleEditor:
		return RoleEditor, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, name)
	}
}

// credential is one "identity:secret[:role]" style config entry.
type credential struct {
	first  string
	second string
	role   Role
}

// parseCredentials splits a comma-separated list of colon-separated
// entries with two required fields and an optional role.
func parseCredentials(config, kind, format string) ([]credential, error) {
	trimmed := strings.TrimSpace(config)
	if trimmed == "" {
		return nil, fmt.Errorf("%s: config must not be empty", kind)
	}

	var creds []credential
	for _, entry := range strings.Split(trimmed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("%s: invalid entry format, expected %s", kind, format)
		}

		first := strings.TrimSpace(parts[0])
		second := strings.TrimSpace(parts[1])
		if first == "" || second == "" {
			return nil, fmt.Errorf("%s: entry fields must not be empty", kind)
		}

		var roleName string
		if len(parts) == 3 {
			roleName = parts[2]
		}
		role, err := ParseRole(roleName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}

		creds = append(creds, credential{first: first, second: second, role: role})
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("%s: no valid entries found", kind)
	}

	return creds, nil
}
