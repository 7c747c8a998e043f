package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Choice is one selectable option.
type Choice struct {
	Label  string
	Detail string
}

// Prompter asks the user questions.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(ctx context.Context, title string, choices []Choice) (int, error)
	Confirm(ctx context.Context, question string) (bool, error)
}

// Available reports whether stdin and stdout are terminals.
func Available() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// Terminal runs prompts as bubbletea programs.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal returns a prompter on in and out. Nil values fall back to the
// process stdin and stdout.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{in: in, out: out}
}

// Select shows choices and waits for one to be picked.
func (t *Terminal) Select(ctx context.Context, title string, choices []Choice) (int, error) {
	if len(choices) == 0 {
		return 0, fmt.Errorf("select %q: no choices", title)
	}
	final, err := t.run(ctx, newSelectModel(title, choices))
	if err != nil {
		return 0, err
	}
	m := final.(selectModel)
	if m.aborted {
		return 0, ErrAborted
	}
	return m.cursor, nil
}

// Confirm asks a yes/no question. The default answer is no.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	final, err := t.run(ctx, newConfirmModel(question))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.answer, nil
}

func (t *Terminal) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}
