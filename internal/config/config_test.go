package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("finboard-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false in dev")
	}
	if cfg.Store.MaxOpenConns != 20 {
		t.Fatalf("Store.MaxOpenConns = %d", cfg.Store.MaxOpenConns)
	}
	if !cfg.Store.Enabled() {
		t.Fatal("dev profile ships a local store DSN")
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI should default to stub mode")
	}
	if cfg.AI.Temperature != 0.2 || cfg.AI.MaxTokens != 1000 {
		t.Fatalf("AI generation defaults = %+v", cfg.AI)
	}
	if cfg.Export.KeepSnapshots != 10 {
		t.Fatalf("Export.KeepSnapshots = %d", cfg.Export.KeepSnapshots)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"FINBOARD_PROFILE": "prod"})
	cfg, err := Load("finboard-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required should default to true in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.ObjectStore.UseSSL {
		t.Fatal("ObjectStore.UseSSL should default to true in prod")
	}
	if cfg.ObjectStore.AutoCreateBucket {
		t.Fatal("ObjectStore.AutoCreateBucket should default to false in prod")
	}
}

func TestLoadTestProfileDisablesStore(t *testing.T) {
	lookup := mapLookup(map[string]string{"FINBOARD_PROFILE": "test"})
	cfg, err := Load("finboard-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Enabled() {
		t.Fatal("test profile must run without a data source")
	}
	if cfg.HTTP.Address != ":18080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"FINBOARD_PROFILE":                  "test",
		"FINBOARD_HTTP_ADDR":                ":9999",
		"FINBOARD_HTTP_READ_TIMEOUT":        "2s",
		"FINBOARD_HTTP_WRITE_TIMEOUT":       "3s",
		"FINBOARD_LOG_LEVEL":                "error",
		"FINBOARD_AUTH_REQUIRED":            "true",
		"FINBOARD_AUTH_STATIC_KEYS":         "k1:analyst",
		"FINBOARD_SERVICE_NAME":             "finboard-custom",
		"FINBOARD_STORE_DSN":                "postgres://example",
		"FINBOARD_STORE_MAX_OPEN_CONNS":     "42",
		"FINBOARD_STORE_MAX_IDLE_CONNS":     "17",
		"FINBOARD_SPREADSHEET_DIR":          "/srv/workbooks",
		"FINBOARD_OBJECTSTORE_ENDPOINT":     "s3.example.com",
		"FINBOARD_OBJECTSTORE_BUCKET":       "finboard-prod",
		"FINBOARD_OBJECTSTORE_REGION":       "us-west-2",
		"FINBOARD_OBJECTSTORE_ACCESS_KEY":   "abc",
		"FINBOARD_OBJECTSTORE_SECRET_KEY":   "def",
		"FINBOARD_OBJECTSTORE_USE_SSL":      "true",
		"FINBOARD_OBJECTSTORE_PREFIX":       "bi",
		"FINBOARD_EXPORT_ARCHIVE_ENABLED":   "true",
		"FINBOARD_EXPORT_KEEP_SNAPSHOTS":    "7",
		"FINBOARD_EXPORT_CREATED_BY":        "nightly-job",
		"FINBOARD_AI_API_KEY":               "secret-key",
		"FINBOARD_AI_FOLDER_ID":             "b1gfolder",
		"FINBOARD_AI_MODEL_URI":             "gpt://b1gfolder/yandexgpt/rc",
		"FINBOARD_AI_TEMPERATURE":           "0.3",
		"FINBOARD_AI_MAX_TOKENS":            "1500",
		"FINBOARD_AI_TIMEOUT":               "21s",
	})
	cfg, err := Load("finboard-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "finboard-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != 3*time.Second {
		t.Fatalf("HTTP.WriteTimeout = %s", cfg.HTTP.WriteTimeout)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required = false, want true")
	}
	if cfg.Auth.StaticKeys != "k1:analyst" {
		t.Fatalf("StaticKeys = %q", cfg.Auth.StaticKeys)
	}
	if cfg.Store.DSN != "postgres://example" {
		t.Fatalf("Store.DSN = %q", cfg.Store.DSN)
	}
	if cfg.Store.MaxOpenConns != 42 || cfg.Store.MaxIdleConns != 17 {
		t.Fatalf("Store conns = %d/%d", cfg.Store.MaxOpenConns, cfg.Store.MaxIdleConns)
	}
	if cfg.Spreadsheet.Dir != "/srv/workbooks" {
		t.Fatalf("Spreadsheet.Dir = %q", cfg.Spreadsheet.Dir)
	}
	if cfg.ObjectStore.Endpoint != "s3.example.com" {
		t.Fatalf("ObjectStore.Endpoint = %q", cfg.ObjectStore.Endpoint)
	}
	if cfg.ObjectStore.Bucket != "finboard-prod" {
		t.Fatalf("ObjectStore.Bucket = %q", cfg.ObjectStore.Bucket)
	}
	if !cfg.Export.ArchiveEnabled || cfg.Export.KeepSnapshots != 7 || cfg.Export.CreatedBy != "nightly-job" {
		t.Fatalf("Export = %+v", cfg.Export)
	}
	if !cfg.AI.Enabled() {
		t.Fatal("AI should be enabled once credentials are set")
	}
	if cfg.AI.ModelURI != "gpt://b1gfolder/yandexgpt/rc" {
		t.Fatalf("AI.ModelURI = %q", cfg.AI.ModelURI)
	}
	if cfg.AI.Temperature != 0.3 || cfg.AI.MaxTokens != 1500 {
		t.Fatalf("AI generation = %+v", cfg.AI)
	}
	if cfg.AI.Timeout != 21*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
}

func TestLoadErrorsOnInvalidValues(t *testing.T) {
	tests := []map[string]string{
		{"FINBOARD_PROFILE": "oops"},
		{"FINBOARD_HTTP_READ_TIMEOUT": "NaN"},
		{"FINBOARD_STORE_MAX_OPEN_CONNS": "oops"},
		{"FINBOARD_EXPORT_KEEP_SNAPSHOTS": "oops"},
		{"FINBOARD_AI_TEMPERATURE": "bad"},
		{"FINBOARD_AI_MAX_TOKENS": "bad"},
		{"FINBOARD_AUTH_REQUIRED": "not-bool"},
		{"FINBOARD_LOG_LEVEL": "verbose"},
	}
	for _, env := range tests {
		_, err := Load("finboard-api", mapLookup(env))
		if err == nil {
			t.Fatalf("Load() expected error for env %#v", env)
		}
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
