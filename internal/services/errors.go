package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrFilesystem    = errors.New("filesystem error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode is the process status reported after a run.
type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitError   ExitCode = 1
	ExitWarning ExitCode = 2
)

func (c ExitCode) severity() int {
	switch c {
	case ExitSuccess:
		return 0
	case ExitWarning:
		return 1
	default:
		return 2
	}
}

// Climb returns the more severe of c and next. Warning outranks success and
// error outranks warning, so a run's status never improves.
func (c ExitCode) Climb(next ExitCode) ExitCode {
	if next.severity() > c.severity() {
		return next
	}
	return c
}

func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "success"
	case ExitWarning:
		return "warning"
	default:
		return "error"
	}
}

// ExitCodeFor maps a per-file failure to the exit code it escalates to.
// Files skipped for validation or missing data only warn; everything else is
// an error.
func ExitCodeFor(err error) ExitCode {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return ExitWarning
	default:
		return ExitError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
