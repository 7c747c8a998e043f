package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// Program describes an external executable and how to ask it for its
// version.
type Program struct {
	Name        string
	Binary      string
	Purpose     string
	VersionArgs []string
	Optional    bool
}

// Status is the outcome of probing a Program. Command holds the resolved
// path once the binary is found.
type Status struct {
	Name      string
	Command   string
	Purpose   string
	Optional  bool
	Available bool
	Version   string
	Detail    string
}

// Check resolves prog on PATH and, when VersionArgs is set, runs it to read
// its version from stdout or stderr. A binary that fails the version call is
// unavailable.
func Check(ctx context.Context, prog Program) Status {
	status := Status{
		Name:     prog.Name,
		Command:  strings.TrimSpace(prog.Binary),
		Purpose:  prog.Purpose,
		Optional: prog.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved

	if len(prog.VersionArgs) > 0 {
		versionCtx, cancel := context.WithTimeout(ctx, versionTimeout)
		defer cancel()
		out, err := exec.CommandContext(versionCtx, resolved, prog.VersionArgs...).CombinedOutput()
		if err != nil {
			status.Detail = fmt.Sprintf("version check failed: %v", err)
			return status
		}
		status.Version = firstLine(string(out))
	}
	status.Available = true
	return status
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
