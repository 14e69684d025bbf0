package main

import (
	"testing"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/moviemanager/internal/auth"
	"github.com/vyrodovalexey/moviemanager/internal/config"
)

// editorHash is a well-formed bcrypt hash; its password is never checked here.
const editorHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level defaults to info", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			logger, err := initLogger(tt.level)

			// Assert
			if err != nil {
				t.Fatalf("initLogger() error = %v", err)
			}
			if logger == nil {
				t.Error("initLogger() returned nil logger")
			}
		})
	}
}

func TestCreateAuthenticator(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.Config
		wantNil    bool
		wantMethod auth.AuthMethod
		wantErr    bool
	}{
		{name: "none", cfg: config.Config{AuthMode: "none"}, wantNil: true},
		{name: "empty mode", cfg: config.Config{AuthMode: ""}, wantNil: true},
		{
			name:       "basic",
			cfg:        config.Config{AuthMode: "basic", BasicAuthUsers: "alice:" + editorHash},
			wantMethod: auth.AuthMethodBasic,
		},
		{
			name:       "apikey",
			cfg:        config.Config{AuthMode: "apikey", APIKeys: "k1:dashboard:viewer"},
			wantMethod: auth.AuthMethodAPIKey,
		},
		{
			name: "multi",
			cfg: config.Config{
				AuthMode:       "multi",
				BasicAuthUsers: "alice:" + editorHash,
				APIKeys:        "k1:dashboard",
			},
			wantMethod: auth.AuthMethodMulti,
		},
		{name: "basic invalid", cfg: config.Config{AuthMode: "basic", BasicAuthUsers: "broken"}, wantErr: true},
		{name: "apikey invalid role", cfg: config.Config{AuthMode: "apikey", APIKeys: "k1:n:admin"}, wantErr: true},
		{name: "unknown mode", cfg: config.Config{AuthMode: "oidc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			authenticator, err := createAuthenticator(&tt.cfg, zap.NewNop())

			// Assert
			if tt.wantErr {
				if err == nil {
					t.Fatal("createAuthenticator() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("createAuthenticator() error = %v", err)
			}
			if tt.wantNil {
				if authenticator != nil {
					t.Errorf("createAuthenticator() = %v, want nil", authenticator)
				}
				return
			}
			if authenticator == nil {
				t.Fatal("createAuthenticator() returned nil")
			}
			if authenticator.Method() != tt.wantMethod {
				t.Errorf("Method() = %s, want %s", authenticator.Method(), tt.wantMethod)
			}
		})
	}
}

func TestCreateMultiAuthenticator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{name: "basic only", cfg: config.Config{BasicAuthUsers: "alice:" + editorHash}},
		{name: "api key only", cfg: config.Config{APIKeys: "k1:dashboard"}},
		{name: "nothing configured", cfg: config.Config{}, wantErr: true},
		{name: "invalid basic", cfg: config.Config{BasicAuthUsers: ":"}, wantErr: true},
		{name: "invalid api key", cfg: config.Config{APIKeys: "nocolon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			authenticator, err := createMultiAuthenticator(&tt.cfg, zap.NewNop())

			// Assert
			if tt.wantErr {
				if err == nil {
					t.Error("createMultiAuthenticator() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("createMultiAuthenticator() error = %v", err)
			}
			if authenticator.Method() != auth.AuthMethodMulti {
				t.Errorf("Method() = %s, want %s", authenticator.Method(), auth.AuthMethodMulti)
			}
		})
	}
}
