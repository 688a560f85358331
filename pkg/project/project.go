// Package project resolves the project root and derives default database names
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Project supplies the base directory used to resolve relative script
// paths and the project name used to derive default database names.
type Project struct {
	Root string
	Name string
}

// FromWorkingDir builds a Project from the current working directory,
// using the directory's base name as the project name.
func FromWorkingDir() (*Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	return &Project{Root: cwd, Name: filepath.Base(cwd)}, nil
}

// DefaultDatabaseName derives the main database name from the project
// name by replacing '-' and '.' with '_'.
func (p *Project) DefaultDatabaseName() string {
	replacer := strings.NewReplacer("-", "_", ".", "_")
	return replacer.Replace(p.Name)
}

// TestDatabaseName derives the test database name by appending "_test"
// to the main database name.
func (p *Project) TestDatabaseName() string {
	return p.DefaultDatabaseName() + "_test"
}

// ResolveScript resolves a script path against the project root.
// Absolute paths pass through unchanged.
func (p *Project) ResolveScript(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}
