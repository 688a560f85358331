package project

import (
	"path/filepath"
	"testing"
)

func TestDefaultDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"foo-bar.baz", "foo_bar_baz"},
		{"myapp", "myapp"},
		{"my-app", "my_app"},
		{"my.app", "my_app"},
	}

	for _, tt := range tests {
		p := &Project{Root: "/srv/" + tt.name, Name: tt.name}
		if got := p.DefaultDatabaseName(); got != tt.want {
			t.Errorf("DefaultDatabaseName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTestDatabaseName(t *testing.T) {
	p := &Project{Name: "foo-bar.baz"}
	if got := p.TestDatabaseName(); got != "foo_bar_baz_test" {
		t.Errorf("TestDatabaseName() = %q, want foo_bar_baz_test", got)
	}
}

func TestResolveScript(t *testing.T) {
	p := &Project{Root: "/srv/app"}

	if got := p.ResolveScript("sql/schema.sql"); got != filepath.Join("/srv/app", "sql", "schema.sql") {
		t.Errorf("relative paths resolve against the project root, got %q", got)
	}
	if got := p.ResolveScript("/tmp/schema.sql"); got != "/tmp/schema.sql" {
		t.Errorf("absolute paths pass through unchanged, got %q", got)
	}
}

func TestFromWorkingDir(t *testing.T) {
	p, err := FromWorkingDir()
	if err != nil {
		t.Fatalf("FromWorkingDir failed: %v", err)
	}
	if p.Root == "" || p.Name == "" {
		t.Errorf("expected root and name to be populated, got %+v", p)
	}
}
