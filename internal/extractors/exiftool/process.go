package exiftool

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

const readySentinel = "{ready}"

// Runner returns the tags exiftool reports for a file.
type Runner interface {
	Query(ctx context.Context, path string) (map[string]any, error)
	Close() error
}

// Process drives a long-lived "exiftool -stay_open True -@ -" child. It is
// started on the first query and restarted once when its pipes break.
type Process struct {
	binary string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// NewProcess returns an unstarted process for binary.
func NewProcess(binary string) *Process {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	return &Process{binary: binary}
}

// Query asks exiftool for every tag of path, grouped as "Group:Tag".
func (p *Process) Query(ctx context.Context, path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("exiftool query: empty path")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := p.startLocked(); err != nil {
			return nil, err
		}
		payload, err := p.exchangeLocked(ctx, path)
		if err == nil {
			return decode(payload)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !brokenPipe(err) {
			return nil, err
		}
		lastErr = err
		p.stopLocked()
	}
	return nil, fmt.Errorf("exiftool pipe broken: %w", lastErr)
}

func (p *Process) startLocked() error {
	if p.cmd != nil {
		return nil
	}
	cmd := exec.Command(p.binary, "-stay_open", "True", "-@", "-")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("exiftool stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("exiftool stdout: %w", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start exiftool: %w", err)
	}
	p.cmd = cmd
	p.stdin = stdin
	p.stdout = bufio.NewReader(stdout)
	return nil
}

type exchangeResult struct {
	data []byte
	err  error
}

func (p *Process) exchangeLocked(ctx context.Context, path string) ([]byte, error) {
	args := strings.Join([]string{"-json", "-n", "-G", "-charset", "filename=utf8", path, "-execute"}, "\n") + "\n"
	if _, err := io.WriteString(p.stdin, args); err != nil {
		return nil, err
	}

	done := make(chan exchangeResult, 1)
	reader := p.stdout
	go func() {
		var buf bytes.Buffer
		for {
			line, err := reader.ReadString('\n')
			if strings.TrimSpace(line) == readySentinel {
				done <- exchangeResult{data: buf.Bytes()}
				return
			}
			buf.WriteString(line)
			if err != nil {
				done <- exchangeResult{err: err}
				return
			}
		}
	}()

	select {
	case res := <-done:
		return res.data, res.err
	case <-ctx.Done():
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		<-done
		p.stopLocked()
		return nil, ctx.Err()
	}
}

func (p *Process) stopLocked() {
	if p.cmd == nil {
		return
	}
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	p.cmd = nil
	p.stdin = nil
	p.stdout = nil
}

// Close asks exiftool to exit and waits for it.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return nil
	}
	_, _ = io.WriteString(p.stdin, "-stay_open\nFalse\n")
	_ = p.stdin.Close()
	err := p.cmd.Wait()
	p.cmd = nil
	p.stdin = nil
	p.stdout = nil
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func brokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}

func decode(payload []byte) (map[string]any, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return map[string]any{}, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("exiftool parse: %w", err)
	}
	if len(records) == 0 {
		return map[string]any{}, nil
	}
	return records[0], nil
}
