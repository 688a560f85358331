// Package dbops provides the database lifecycle operations: create,
// execute-script, and schema comparison.
package dbops

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/supporttools/GoSQLDev/pkg/config"
	"github.com/supporttools/GoSQLDev/pkg/engine"
	"github.com/supporttools/GoSQLDev/pkg/logging"
	"github.com/supporttools/GoSQLDev/pkg/project"
	"github.com/supporttools/GoSQLDev/pkg/runner"
	"github.com/supporttools/GoSQLDev/pkg/schemadiff"
)

// Runner executes one built command and reports its outcome.
type Runner interface {
	Run(command engine.Command) (runner.Result, error)
}

// InvalidScriptError is returned when a script path does not resolve to
// a readable regular file. No subprocess is spawned in that case.
type InvalidScriptError struct {
	Path string
	Err  error
}

func (e *InvalidScriptError) Error() string {
	return fmt.Sprintf("invalid script %s: %v", e.Path, e.Err)
}

func (e *InvalidScriptError) Unwrap() error { return e.Err }

// Operations composes the command builder and process runner into the
// public database operations. Operations holds no state between calls;
// each call reads the Settings snapshot at call time.
type Operations struct {
	Settings *config.Settings
	Project  *project.Project

	runner  Runner
	log     *logrus.Logger
	open    func(*config.Settings, string) (*schemadiff.Connection, error)
	compare func(left, right *schemadiff.Connection) (*schemadiff.Result, error)
}

// New returns Operations wired to the real process runner and schema
// differ.
func New(settings *config.Settings, proj *project.Project) *Operations {
	return &Operations{
		Settings: settings,
		Project:  proj,
		runner:   runner.New(),
		log:      logging.Logger(),
		open:     schemadiff.Open,
		compare:  schemadiff.Compare,
	}
}

// opLog returns a logger entry tagged with the operation name and a
// fresh operation id.
func (o *Operations) opLog(operation string) *logrus.Entry {
	return o.log.WithFields(logrus.Fields{
		"operation": operation,
		"id":        uuid.NewString(),
	})
}

// CreateDatabase drops, creates, and optionally grants the configured
// database, running the built commands in strict sequence. The first
// failing command aborts the operation; a partially completed sequence
// is not rolled back (re-running starts with an unconditional drop).
func (o *Operations) CreateDatabase() error {
	if err := o.Settings.Validate(); err != nil {
		return err
	}

	impl, err := engine.Get(o.Settings.Engine)
	if err != nil {
		return err
	}

	log := o.opLog("create-database")
	log.WithFields(logrus.Fields{
		"engine":   impl.Name(),
		"database": o.Settings.DatabaseName,
	}).Info("creating database")

	for _, command := range impl.BuildCreateCommands(o.Settings) {
		log.WithField("command", command.String()).Debug("running create step")
		if _, err := o.runner.Run(command); err != nil {
			return err
		}
	}

	return nil
}

// CreateMainDatabase sets the database name derived from the project
// name and delegates to CreateDatabase. The name change persists in the
// Settings after the call; this is a documented side effect.
func (o *Operations) CreateMainDatabase() error {
	o.Settings.DatabaseName = o.Project.DefaultDatabaseName()
	return o.CreateDatabase()
}

// CreateTestDatabase sets the database name to the project's test
// database name and delegates to CreateDatabase. The name change
// persists in the Settings after the call.
func (o *Operations) CreateTestDatabase() error {
	o.Settings.DatabaseName = o.Project.TestDatabaseName()
	return o.CreateDatabase()
}

// ExecuteScript resolves the script path against the project root, reads
// it as UTF-8 text, and streams it to the engine's client against the
// configured database.
func (o *Operations) ExecuteScript(path string) error {
	if err := o.Settings.Validate(); err != nil {
		return err
	}

	impl, err := engine.Get(o.Settings.Engine)
	if err != nil {
		return err
	}

	resolved := o.Project.ResolveScript(path)

	info, err := os.Stat(resolved)
	if err != nil {
		return &InvalidScriptError{Path: resolved, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &InvalidScriptError{Path: resolved, Err: fmt.Errorf("not a regular file")}
	}

	scriptText, err := os.ReadFile(resolved)
	if err != nil {
		return &InvalidScriptError{Path: resolved, Err: err}
	}

	log := o.opLog("execute-script")
	log.WithFields(logrus.Fields{
		"engine":   impl.Name(),
		"database": o.Settings.DatabaseName,
		"script":   path,
	}).Info("executing script")

	command := impl.BuildExecuteCommand(o.Settings, string(scriptText), path)
	if _, err := o.runner.Run(command); err != nil {
		return err
	}

	return nil
}

// Compare opens comparison connections to both named databases and
// computes their structural diff. The caller owns closing the
// connections embedded in the returned result.
func (o *Operations) Compare(leftName, rightName string) (*schemadiff.Result, error) {
	if _, err := engine.Get(o.Settings.Engine); err != nil {
		return nil, err
	}

	left, err := o.open(o.Settings, leftName)
	if err != nil {
		return nil, err
	}

	right, err := o.open(o.Settings, rightName)
	if err != nil {
		left.Close()
		return nil, err
	}

	result, err := o.compare(left, right)
	if err != nil {
		left.Close()
		right.Close()
		return nil, err
	}

	return result, nil
}

// EnsureEqual compares the two named databases and fails with a
// SchemaMismatchError carrying the rendered report when they differ.
// Both comparison connections are closed on every return path.
func (o *Operations) EnsureEqual(leftName, rightName string) error {
	result, err := o.Compare(leftName, rightName)
	if err != nil {
		return err
	}
	defer result.Close()

	if !result.Equal() {
		return &schemadiff.SchemaMismatchError{
			Left:   leftName,
			Right:  rightName,
			Report: result.Report(),
		}
	}

	o.opLog("ensure-equal").WithFields(logrus.Fields{
		"left":  leftName,
		"right": rightName,
	}).Info("schemas are equal")

	return nil
}
