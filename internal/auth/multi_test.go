package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vyrodovalexey/moviemanager/internal/auth"
)

// mockAuthenticator is a test double for auth.Authenticator.
type mockAuthenticator struct {
	info   *auth.AuthInfo
	err    error
	method auth.AuthMethod
	called bool
}

func (m *mockAuthenticator) Authenticate(_ *http.Request) (*auth.AuthInfo, error) {
	m.called = true
	return m.info, m.err
}

func (m *mockAuthenticator) Method() auth.AuthMethod {
	return m.method
}

func TestMultiAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	success := &auth.AuthInfo{Method: auth.AuthMethodAPIKey, Subject: "ci", Role: auth.RoleEditor}

	tests := []struct {
		name        string
		auths       func() []*mockAuthenticator
		wantSubject string
		wantErrIs   error
		wantCalled  []bool
	}{
		{
			name:      "empty list",
			auths:     func() []*mockAuthenticator { return nil },
			wantErrIs: auth.ErrUnauthenticated,
		},
		{
			name: "falls through missing credentials",
			auths: func() []*mockAuthenticator {
				return []*mockAuthenticator{
					{err: auth.ErrUnauthenticated, method: auth.AuthMethodBasic},
					{info: success, method: auth.AuthMethodAPIKey},
				}
			},
			wantSubject: "ci",
			wantCalled:  []bool{true, true},
		},
		{
			name: "invalid credentials fail immediately",
			auths: func() []*mockAuthenticator {
				return []*mockAuthenticator{
					{err: auth.ErrInvalidCredentials, method: auth.AuthMethodBasic},
					{info: success, method: auth.AuthMethodAPIKey},
				}
			},
			wantErrIs:  auth.ErrInvalidCredentials,
			wantCalled: []bool{true, false},
		},
		{
			name: "all missing credentials",
			auths: func() []*mockAuthenticator {
				return []*mockAuthenticator{
					{err: auth.ErrUnauthenticated, method: auth.AuthMethodBasic},
					{err: auth.ErrUnauthenticated, method: auth.AuthMethodAPIKey},
				}
			},
			wantErrIs:  auth.ErrUnauthenticated,
			wantCalled: []bool{true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := tt.auths()
			authenticators := make([]auth.Authenticator, 0, len(mocks))
			for _, m := range mocks {
				authenticators = append(authenticators, m)
			}
			multi := auth.NewMultiAuthenticator(authenticators...)

			info, err := multi.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil))

			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErrIs)
				}
			} else {
				if err != nil {
					t.Fatalf("Authenticate() unexpected error: %v", err)
				}
				if info.Subject != tt.wantSubject {
					t.Errorf("Subject = %q, want %q", info.Subject, tt.wantSubject)
				}
			}

			for i, want := range tt.wantCalled {
				if mocks[i].called != want {
					t.Errorf("authenticator %d called = %v, want %v", i, mocks[i].called, want)
				}
			}
		})
	}
}

func TestMultiAuthenticator_Method(t *testing.T) {
	t.Parallel()

	if got := auth.NewMultiAuthenticator().Method(); got != auth.AuthMethodMulti {
		t.Errorf("Method() = %q, want %q", got, auth.AuthMethodMulti)
	}
}
