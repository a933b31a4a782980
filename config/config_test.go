package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
			expectError: false,
		},
		{
			name:  "single service - sweeper",
			input: "sweeper",
			expected: map[ServiceMode]bool{
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:  "both services",
			input: "http,sweeper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:  "services with spaces",
			input: " http , sweeper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:  "duplicate services",
			input: "http,http,sweeper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:        "empty string",
			input:       "",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,invalid-service",
			expected:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name            string
		services        string
		expectedHTTP    bool
		expectedSweeper bool
	}{
		{
			name:            "default - http only",
			services:        "http",
			expectedHTTP:    true,
			expectedSweeper: false,
		},
		{
			name:            "http and sweeper",
			services:        "http,sweeper",
			expectedHTTP:    true,
			expectedSweeper: true,
		},
		{
			name:            "sweeper only",
			services:        "sweeper",
			expectedHTTP:    false,
			expectedSweeper: true,
		},
		{
			name:            "invalid configuration",
			services:        "invalid-service",
			expectedHTTP:    false,
			expectedSweeper: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}

			if cfg.IsSweeperEnabled() != tt.expectedSweeper {
				t.Errorf("IsSweeperEnabled(): expected %v, got %v", tt.expectedSweeper, cfg.IsSweeperEnabled())
			}
		})
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("ACTIVATION_TOKEN_SECRET", "activation-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "10m")
	t.Setenv("REFRESH_TOKEN_TTL", "96h")
	t.Setenv("SOCIAL_CLIENT_ID", "lms-client")
	t.Setenv("SOCIAL_ISSUER_URL", "https://login.example.com")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		AccessTokenSecret:     "access-secret",
		RefreshTokenSecret:    "refresh-secret",
		ActivationTokenSecret: "activation-secret",
		AccessTokenTTL:        10 * time.Minute,
		RefreshTokenTTL:       96 * time.Hour,
		ActivationTokenTTL:    5 * time.Minute,
		SessionTTL:            168 * time.Hour,
		Social: SocialConfig{
			ClientID:  "lms-client",
			IssuerURL: "https://login.example.com",
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}

	if !cfg.Auth.Social.Enabled() {
		t.Fatal("expected social login to be enabled with a client id")
	}
}

func TestAppConfig_ParseAuthEnv_MissingSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected error when ACTIVATION_TOKEN_SECRET is missing")
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{
		AccessTokenTTL:     time.Second,
		RefreshTokenTTL:    time.Minute,
		ActivationTokenTTL: 0,
		SessionTTL:         time.Hour,
	}

	cfg.Sanitize()

	if cfg.AccessTokenTTL != time.Minute {
		t.Errorf("expected access TTL clamped to 1m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != time.Hour {
		t.Errorf("expected refresh TTL clamped to 1h, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.ActivationTokenTTL != time.Minute {
		t.Errorf("expected activation TTL clamped to 1m, got %v", cfg.ActivationTokenTTL)
	}
	if cfg.SessionTTL < cfg.RefreshTokenTTL {
		t.Errorf("expected session TTL to cover refresh TTL, got %v", cfg.SessionTTL)
	}
}

func TestSweeperConfig_Sanitize(t *testing.T) {
	cfg := SweeperConfig{
		Interval:      time.Second,
		ReadRetention: time.Hour,
	}

	cfg.Sanitize()

	if cfg.Interval != time.Minute {
		t.Errorf("expected interval clamped to 1m, got %v", cfg.Interval)
	}
	if cfg.ReadRetention != 24*time.Hour {
		t.Errorf("expected retention clamped to 24h, got %v", cfg.ReadRetention)
	}
}

func TestMailConfig_Sanitize(t *testing.T) {
	cfg := MailConfig{Port: -1, Timeout: 0}
	cfg.Sanitize()

	if cfg.Port != 587 {
		t.Errorf("expected default port 587, got %d", cfg.Port)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}

	if cfg.Enabled() {
		t.Error("expected mail to be disabled without host and from")
	}

	cfg.Host = "smtp.example.com"
	cfg.From = "noreply@example.com"
	if !cfg.Enabled() {
		t.Error("expected mail to be enabled with host and from")
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	expected := []ServiceMode{
		ServiceModeHTTP,
		ServiceModeSweeper,
	}

	if len(modes) != len(expected) {
		t.Errorf("expected %d service modes, got %d", len(expected), len(modes))
	}

	for i, mode := range modes {
		if mode != expected[i] {
			t.Errorf("expected service mode %s at index %d, got %s", expected[i], i, mode)
		}
	}
}
