package runner

import (
	"errors"
	"strings"
	"testing"

	"github.com/supporttools/GoSQLDev/pkg/engine"
)

func TestRunCapturesOutput(t *testing.T) {
	r := New()

	result, err := r.Run(engine.Command{
		Args: []string{"sh", "-c", "echo out; echo err 1>&2"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
	if result.Stdout != "out\n" {
		t.Errorf("unexpected stdout: %q", result.Stdout)
	}
	if result.Stderr != "err\n" {
		t.Errorf("unexpected stderr: %q", result.Stderr)
	}
}

func TestRunStreamsInputPayload(t *testing.T) {
	r := New()

	payload := "CREATE TABLE example (id INT);\n"
	result, err := r.Run(engine.Command{
		Args:        []string{"cat"},
		Input:       payload,
		DisplayName: "schema.sql",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Stdout != payload {
		t.Errorf("payload not fully streamed: got %q", result.Stdout)
	}
}

func TestRunLargePayloadDoesNotDeadlock(t *testing.T) {
	r := New()

	// A payload well past the pipe buffer size, echoed back by the
	// child while it is still being written.
	payload := strings.Repeat("SELECT 'x';\n", 20000)
	result, err := r.Run(engine.Command{
		Args:  []string{"cat"},
		Input: payload,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Stdout) != len(payload) {
		t.Errorf("expected %d bytes of output, got %d", len(payload), len(result.Stdout))
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r := New()

	result, err := r.Run(engine.Command{
		Args:        []string{"sh", "-c", "echo noise; exit 3"},
		DisplayName: "bad.sql",
	})
	if err == nil {
		t.Fatal("expected an error for a nonzero exit")
	}

	var failed *CommandFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected CommandFailedError, got %T", err)
	}
	if failed.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", failed.ExitCode)
	}
	if !strings.Contains(failed.Error(), "bad.sql") {
		t.Errorf("error should name the display name: %v", failed)
	}
	// captured output belongs on the debug channel, not in the message
	if strings.Contains(failed.Error(), "noise") {
		t.Errorf("error message must not embed subprocess output: %v", failed)
	}

	// output is still captured for diagnostics
	if result.Stdout != "noise\n" {
		t.Errorf("stdout should be captured even on failure, got %q", result.Stdout)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := New()

	_, err := r.Run(engine.Command{
		Args: []string{"gosqldev-no-such-binary"},
	})
	if err == nil {
		t.Fatal("expected an error for a missing client binary")
	}

	var failed *CommandFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected CommandFailedError, got %T", err)
	}
}

func TestRunExtraEnvironment(t *testing.T) {
	r := New()

	result, err := r.Run(engine.Command{
		Args: []string{"sh", "-c", `printf '%s' "$CLIENT_PASSWORD"`},
		Env:  []string{"CLIENT_PASSWORD=sekrit"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Stdout != "sekrit" {
		t.Errorf("extra env not passed to the subprocess, got %q", result.Stdout)
	}
}
