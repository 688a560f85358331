package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseEngineType(t *testing.T) {
	tests := []struct {
		input   string
		want    EngineType
		wantErr bool
	}{
		{"mysql", EngineMySQL, false},
		{"MySQL", EngineMySQL, false},
		{"MYSQL", EngineMySQL, false},
		{"postgresql", EnginePostgreSQL, false},
		{"PostgreSQL", EnginePostgreSQL, false},
		{"postgres", EnginePostgreSQL, false},
		{" mysql ", EngineMySQL, false},
		{"oracle", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEngineType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEngineType(%q) expected an error", tt.input)
				continue
			}
			var unsupported *UnsupportedEngineError
			if !errors.As(err, &unsupported) {
				t.Errorf("ParseEngineType(%q) expected UnsupportedEngineError, got %T", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEngineType(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEngineType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.Engine != "" {
		t.Errorf("engine must not have a default, got %q", settings.Engine)
	}
	if settings.CompareUsername != "dev" || settings.ComparePassword != "dev" {
		t.Errorf("compare credentials should default to dev/dev")
	}
	if settings.ExecuteUsername != "dev" || settings.ExecutePassword != "dev" {
		t.Errorf("execute credentials should default to dev/dev")
	}
	if settings.GrantUsername != "" {
		t.Errorf("grant user must default to unset, got %q", settings.GrantUsername)
	}
	if settings.GrantPassword != "dev" {
		t.Errorf("grant password should default to dev, got %q", settings.GrantPassword)
	}
	if settings.CreateUsername != "" {
		t.Errorf("create user resolution is engine-specific and happens at build time, got %q", settings.CreateUsername)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `engine: Postgres
databaseName: app_db
grantUsername: appuser
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettingsFile(path)
	if err != nil {
		t.Fatalf("LoadSettingsFile failed: %v", err)
	}

	if settings.Engine != EnginePostgreSQL {
		t.Errorf("engine should be normalized, got %q", settings.Engine)
	}
	if settings.DatabaseName != "app_db" {
		t.Errorf("databaseName not loaded, got %q", settings.DatabaseName)
	}
	if settings.GrantUsername != "appuser" {
		t.Errorf("grantUsername not loaded, got %q", settings.GrantUsername)
	}
	// fields absent from the document keep their defaults
	if settings.ExecuteUsername != "dev" {
		t.Errorf("absent fields should keep defaults, got %q", settings.ExecuteUsername)
	}
}

func TestLoadSettingsFileMissing(t *testing.T) {
	if _, err := LoadSettingsFile("/does/not/exist.yaml"); err == nil {
		t.Error("expected an error for a missing settings file")
	}
}

func TestValidate(t *testing.T) {
	settings := DefaultSettings()
	if err := settings.Validate(); err == nil {
		t.Error("settings without an engine must not validate")
	}

	settings.Engine = EngineMySQL
	if err := settings.Validate(); err == nil {
		t.Error("settings without a database name must not validate")
	}

	settings.DatabaseName = "app_db"
	if err := settings.Validate(); err != nil {
		t.Errorf("valid settings rejected: %v", err)
	}

	settings.Engine = "oracle"
	err := settings.Validate()
	var unsupported *UnsupportedEngineError
	if !errors.As(err, &unsupported) {
		t.Errorf("expected UnsupportedEngineError for oracle, got %v", err)
	}
}
