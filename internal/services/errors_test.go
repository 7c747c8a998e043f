package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"autonameow/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "exiftool", "query", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"exiftool", "query", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.ExitCode
	}{
		{"nil", nil, services.ExitSuccess},
		{"validation", services.Wrap(services.ErrValidation, "namebuilder", "build", "bad template", nil), services.ExitWarning},
		{"not found", fmt.Errorf("lookup: %w", services.ErrNotFound), services.ExitWarning},
		{"filesystem", services.Wrap(services.ErrFilesystem, "renamer", "rename", "", errors.New("EACCES")), services.ExitError},
		{"unmarked", errors.New("boom"), services.ExitError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ExitCodeFor(tc.err); got != tc.want {
				t.Fatalf("ExitCodeFor() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExitCodeOnlyClimbs(t *testing.T) {
	code := services.ExitSuccess
	code = code.Climb(services.ExitWarning)
	if code != services.ExitWarning {
		t.Fatalf("expected warning, got %v", code)
	}
	code = code.Climb(services.ExitSuccess)
	if code != services.ExitWarning {
		t.Fatalf("success must not lower warning, got %v", code)
	}
	code = code.Climb(services.ExitError)
	if code != services.ExitError {
		t.Fatalf("expected error, got %v", code)
	}
	code = code.Climb(services.ExitWarning)
	if code != services.ExitError {
		t.Fatalf("warning must not lower error, got %v", code)
	}
	if int(code) != 1 {
		t.Fatalf("error exit status = %d, want 1", int(code))
	}
}
