// Package runner executes engine client commands as subprocesses
package runner

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/supporttools/GoSQLDev/pkg/engine"
	"github.com/supporttools/GoSQLDev/pkg/logging"
)

// Result captures the outcome of one subprocess invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandFailedError is returned when the external client exits nonzero
// or cannot be spawned. The message names the command line and display
// name; captured output is only emitted on the debug channel so that
// credentials and client noise stay out of default logs.
type CommandFailedError struct {
	CommandLine string
	DisplayName string
	ExitCode    int
	Err         error
}

func (e *CommandFailedError) Error() string {
	if e.DisplayName != "" {
		return fmt.Sprintf("command failed for %s: %s: %v (enable debug logging for client output)",
			e.DisplayName, e.CommandLine, e.Err)
	}
	return fmt.Sprintf("command failed: %s: %v (enable debug logging for client output)",
		e.CommandLine, e.Err)
}

func (e *CommandFailedError) Unwrap() error { return e.Err }

// IOFailureError is returned when the input payload could not be fully
// written to the subprocess.
type IOFailureError struct {
	DisplayName string
	Err         error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("failed to write input payload for %s: %v", e.DisplayName, e.Err)
}

func (e *IOFailureError) Unwrap() error { return e.Err }

// Runner spawns engine client commands and collects their output. All
// runs are synchronous; the runner blocks until the process exits and
// imposes no timeout.
type Runner struct {
	log *logrus.Logger
}

// New returns a Runner using the shared logger.
func New() *Runner {
	return &Runner{log: logging.Logger()}
}

// Run executes the command, streaming its Input payload (if any) to the
// process's standard input and closing it afterward. Standard output and
// standard error are drained concurrently with the input write, so a
// chatty client cannot deadlock against an unread pipe.
func (r *Runner) Run(command engine.Command) (Result, error) {
	execCmd := exec.Command(command.Args[0], command.Args[1:]...)
	if len(command.Env) > 0 {
		execCmd.Env = append(os.Environ(), command.Env...)
	}

	// Assigning buffers here makes the exec package drain each pipe on
	// its own goroutine, started before any input is written.
	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	var stdin io.WriteCloser
	if command.Input != "" {
		var err error
		stdin, err = execCmd.StdinPipe()
		if err != nil {
			return Result{ExitCode: -1}, &CommandFailedError{
				CommandLine: command.String(),
				DisplayName: command.DisplayName,
				ExitCode:    -1,
				Err:         err,
			}
		}
	}

	if err := execCmd.Start(); err != nil {
		return Result{ExitCode: -1}, &CommandFailedError{
			CommandLine: command.String(),
			DisplayName: command.DisplayName,
			ExitCode:    -1,
			Err:         err,
		}
	}

	if stdin != nil {
		// The full payload must reach the client; a short write is an
		// error, not a silent truncation.
		if _, err := io.WriteString(stdin, command.Input); err != nil {
			execCmd.Process.Kill()
			execCmd.Wait()
			return Result{ExitCode: -1}, &IOFailureError{DisplayName: command.DisplayName, Err: err}
		}
		if err := stdin.Close(); err != nil {
			execCmd.Process.Kill()
			execCmd.Wait()
			return Result{ExitCode: -1}, &IOFailureError{DisplayName: command.DisplayName, Err: err}
		}
	}

	waitErr := execCmd.Wait()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: execCmd.ProcessState.ExitCode(),
	}

	r.log.WithFields(logrus.Fields{
		"command":  command.String(),
		"exitCode": result.ExitCode,
	}).Debug("subprocess finished")
	if result.Stdout != "" {
		r.log.WithField("command", command.Args[0]).Debugf("stdout: %s", result.Stdout)
	}
	if result.Stderr != "" {
		r.log.WithField("command", command.Args[0]).Debugf("stderr: %s", result.Stderr)
	}

	if waitErr != nil {
		return result, &CommandFailedError{
			CommandLine: command.String(),
			DisplayName: command.DisplayName,
			ExitCode:    result.ExitCode,
			Err:         waitErr,
		}
	}

	return result, nil
}
