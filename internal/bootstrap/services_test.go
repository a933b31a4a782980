package bootstrap

import (
	"sort"
	"testing"
	"time"

	"github.com/openlearn/lms-api/config"
)

func TestErrorChannelCapacity(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{
			name: "no services enabled",
			want: 0,
		},
		{
			name:  "http only",
			modes: []config.ServiceMode{config.ServiceModeHTTP},
			want:  1,
		},
		{
			name:  "sweeper only",
			modes: []config.ServiceMode{config.ServiceModeSweeper},
			want:  1,
		},
		{
			name:  "http and sweeper",
			modes: []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeSweeper},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			if got := errorChannelCapacity(enabled); got != tt.want {
				t.Fatalf("errorChannelCapacity(%v) = %d, want %d", tt.modes, got, tt.want)
			}
		})
	}
}

func TestErrorChannelBufferSize(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{
			name: "no services enabled",
			want: 1,
		},
		{
			name:  "http only",
			modes: []config.ServiceMode{config.ServiceModeHTTP},
			want:  2,
		},
		{
			name:  "http and sweeper",
			modes: []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeSweeper},
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			if got := errorChannelBufferSize(enabled); got != tt.want {
				t.Fatalf("errorChannelBufferSize(%v) = %d, want %d", tt.modes, got, tt.want)
			}
		})
	}
}

func TestGetEnabledServices(t *testing.T) {
	cfg := &config.AppConfig{Services: "http,sweeper"}

	got := GetEnabledServices(cfg)
	sort.Strings(got)

	want := []string{"http", "sweeper"}
	if len(got) != len(want) {
		t.Fatalf("GetEnabledServices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GetEnabledServices = %v, want %v", got, want)
		}
	}
}

func TestGetEnabledServicesInvalid(t *testing.T) {
	cfg := &config.AppConfig{Services: "http,mainframe"}

	if got := GetEnabledServices(cfg); len(got) != 0 {
		t.Fatalf("GetEnabledServices with invalid mode = %v, want empty", got)
	}
}

func TestValidateServiceConfig(t *testing.T) {
	if err := ValidateServiceConfig(nil); err == nil {
		t.Fatal("ValidateServiceConfig(nil) = nil, want error")
	}

	if err := ValidateServiceConfig(&config.AppConfig{Services: "mainframe"}); err == nil {
		t.Fatal("ValidateServiceConfig with invalid mode = nil, want error")
	}

	if err := ValidateServiceConfig(&config.AppConfig{Services: "http"}); err != nil {
		t.Fatalf("ValidateServiceConfig with http mode = %v, want nil", err)
	}
}

func TestCookieSettingsFromConfig(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.HTTP.CookieDomain = "app.example.com"
	cfg.HTTP.CookieSecure = true
	cfg.Auth.AccessTokenTTL = 5 * time.Minute
	cfg.Auth.RefreshTokenTTL = 72 * time.Hour

	settings := cookieSettingsFromConfig(cfg)
	if settings.Domain != "app.example.com" {
		t.Fatalf("Domain = %q, want app.example.com", settings.Domain)
	}
	if !settings.Secure {
		t.Fatal("Secure = false, want true")
	}
	if settings.AccessTTL != 5*time.Minute {
		t.Fatalf("AccessTTL = %v, want 5m", settings.AccessTTL)
	}
	if settings.RefreshTTL != 72*time.Hour {
		t.Fatalf("RefreshTTL = %v, want 72h", settings.RefreshTTL)
	}
}

func TestCookieSettingsFromConfigDevMode(t *testing.T) {
	cfg := &config.AppConfig{IsDev: true}
	cfg.HTTP.CookieSecure = true

	if settings := cookieSettingsFromConfig(cfg); settings.Secure {
		t.Fatal("Secure = true in dev mode, want false")
	}
}
