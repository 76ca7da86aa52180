package inputs

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iowarp/iowarp-hooks/internal/manifest"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

// ErrPromptCancelled means the operator aborted an interactive prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// TextInputPrompter asks for input values with a bubbletea textinput line
// editor. One short program runs per question; there is no full-screen UI.
// When the editor cannot start (no usable terminal state, for instance) the
// question falls back to a plain line-based prompt.
type TextInputPrompter struct {
	fallback Prompter
	run      func(tea.Model) (tea.Model, error)
}

// NewTextInputPrompter creates the textinput-backed prompter.
func NewTextInputPrompter() *TextInputPrompter {
	return &TextInputPrompter{
		fallback: NewTTYPrompter(os.Stdin, os.Stderr),
		run: func(m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m).Run()
		},
	}
}

// Ask runs a one-line editor for the given input spec.
func (p *TextInputPrompter) Ask(name string, spec manifest.InputSpec) (string, error) {
	text := spec.Prompt
	if text == "" {
		text = "Enter " + name
	}

	ti := textinput.New()
	ti.Prompt = "> "
	if spec.HasDefault() {
		ti.Placeholder = spec.DefaultValue()
	}
	ti.Focus()

	m := askModel{question: text, input: ti}
	final, err := p.run(m)
	if err != nil {
		if p.fallback != nil {
			return p.fallback.Ask(name, spec)
		}
		return "", err
	}
	result := final.(askModel)
	if result.cancelled {
		return "", ErrPromptCancelled
	}
	return result.input.Value(), nil
}

// Confirm asks a yes/no question through the same editor.
func (p *TextInputPrompter) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	val, err := p.Ask("confirm", manifest.InputSpec{Prompt: fmt.Sprintf("%s (%s)", question, hint)})
	if err != nil {
		return false, err
	}
	switch val {
	case "":
		return def, nil
	case "y", "Y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

type askModel struct {
	question  string
	input     textinput.Model
	done      bool
	cancelled bool
}

func (m askModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m askModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s", style.Bold.Render(m.question), m.input.View(),
		style.Dim.Render("enter to accept, esc to cancel"))
}
