package inputs

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iowarp/iowarp-hooks/internal/manifest"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

// TTYPrompter asks for input values on a plain terminal, one line per
// question. It is the fallback when the textinput UI cannot run.
type TTYPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTTYPrompter creates a prompter reading from in and writing to out.
func NewTTYPrompter(in io.Reader, out io.Writer) *TTYPrompter {
	return &TTYPrompter{in: bufio.NewReader(in), out: out}
}

// Ask prints the spec's prompt text (with the default in brackets when one
// exists) and returns the trimmed line entered.
func (p *TTYPrompter) Ask(name string, spec manifest.InputSpec) (string, error) {
	text := spec.Prompt
	if text == "" {
		text = "Enter " + name
	}
	if spec.HasDefault() {
		fmt.Fprintf(p.out, "%s %s: ", text, style.Dim.Render("["+spec.DefaultValue()+"]"))
	} else if !spec.Required {
		fmt.Fprintf(p.out, "%s %s: ", text, style.Dim.Render("[optional]"))
	} else {
		fmt.Fprintf(p.out, "%s: ", text)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question; blank input returns def.
func (p *TTYPrompter) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s ", question, style.Dim.Render(hint))

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
