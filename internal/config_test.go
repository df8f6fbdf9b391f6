package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/libris/pkg/config"
)

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
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if !cfg.Catalog.SortOnDisplay {
		t.Error("sort_on_display should default to true")
	}
	if cfg.Events.Throttle != 2*time.Second {
		t.Errorf("throttle = %v, want 2s", cfg.Events.Throttle)
	}
}

func TestAppConfig_LogFormat(t *testing.T) {
	cfg := ApplicationConfig{HTTP: HTTPConfig{Port: 80}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty format should default: %v", err)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("format = %q, want json", cfg.LogFormat)
	}

	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log format should fail validation")
	}
}

func TestHTTPConfig_Port(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 9090}
	if got := cfg.Address(); got != ":9090" {
		t.Errorf("address = %q, want :9090", got)
	}
}

func TestCatalogConfig_WatchNeedsPath(t *testing.T) {
	cfg := CatalogConfig{Watch: true}
	if err := cfg.Validate(); err == nil {
		t.Error("watch without path should fail validation")
	}
	cfg.Path = "books.txt"
	if err := cfg.Validate(); err != nil {
		t.Errorf("watch with path should pass: %v", err)
	}
}

func TestEventsConfig_NegativeThrottle(t *testing.T) {
	cfg := EventsConfig{Throttle: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("negative throttle should fail validation")
	}
}

func TestConfig_LoadFromYAML(t *testing.T) {
	t.Setenv("LIBRIS_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `app:
  log_level: debug
  log_format: text
  http:
    port: 9000
catalog:
  path: books.txt
  data_dir: ./data
  watch: true
  sort_on_display: false
auth:
  mode: token
  token: ${LIBRIS_TEST_TOKEN}
events:
  throttle: 500ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.App.LogLevel)
	}
	if cfg.App.HTTP.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.App.HTTP.Port)
	}
	if cfg.Catalog.Path != "books.txt" || cfg.Catalog.DataDir != "./data" || !cfg.Catalog.Watch {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Catalog.SortOnDisplay {
		t.Error("sort_on_display = true, want false")
	}
	if cfg.Auth.Token != "s3cret" || !cfg.Auth.AuthEnabled() {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Events.Throttle != 500*time.Millisecond {
		t.Errorf("throttle = %v, want 500ms", cfg.Events.Throttle)
	}
}
