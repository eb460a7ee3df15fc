package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if got := cfg.App.HTTP.Address(); got != ":8080" {
		t.Errorf("address = %q", got)
	}
	if cfg.Timer.WorkDuration() != 25*time.Minute || cfg.Timer.BreakDuration() != 5*time.Minute {
		t.Errorf("timer durations = %v/%v", cfg.Timer.WorkDuration(), cfg.Timer.BreakDuration())
	}
}

func TestHTTPConfig_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestTimerConfig_Bounds(t *testing.T) {
	for _, tc := range []TimerConfig{
		{WorkMinutes: 0, BreakMinutes: 5},
		{WorkMinutes: 25, BreakMinutes: 0},
		{WorkMinutes: 500, BreakMinutes: 5},
	} {
		if err := tc.Validate(); err == nil {
			t.Errorf("timer config %+v should fail validation", tc)
		}
	}
}

func TestFullConfig_SectionValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}

	cfg = NewDefaultConfig()
	cfg.Content.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch empty content path")
	}
}
