package command

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRunMergesStreams(t *testing.T) {
	cmd := NewCommand("sh", "-c", "echo out; echo err 1>&2; printf 'a\\r\\nb\\n'")

	var seen []string
	lines, err := cmd.Run(context.Background(), func(line string) {
		seen = append(seen, line)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"out", "err", "a", "b"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("handler saw %q, want %q", seen, want)
	}
}

func TestRunExitStatus(t *testing.T) {
	cmd := NewCommand("sh", "-c", "echo Device not found; exit 3")

	lines, err := cmd.Run(context.Background())

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	if len(lines) != 1 || lines[0] != "Device not found" {
		t.Errorf("lines = %q", lines)
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := NewCommand("definitely-not-a-real-binary-xyz").Run(context.Background())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("missing binary must not look like an exit status: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCommand("sleep", "5").Run(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestString(t *testing.T) {
	cmd := NewCommand("dstat", "--cpu", "1", "1")
	if got := cmd.String(); got != "dstat --cpu 1 1" {
		t.Errorf("String() = %q", got)
	}
}
