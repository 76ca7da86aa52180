package inputs

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iowarp/iowarp-hooks/internal/manifest"
	"gopkg.in/yaml.v3"
)

// scriptedPrompter answers prompts from a fixed script, in order.
type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Ask(name string, spec manifest.InputSpec) (string, error) {
	p.asked = append(p.asked, name)
	if len(p.answers) == 0 {
		return "", errors.New("script exhausted")
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) Confirm(question string, def bool) (bool, error) {
	return def, nil
}

// declareInputs builds a manifest with the given inputs YAML fragment.
func declareInputs(t *testing.T, inputsYAML string) *manifest.Manifest {
	t.Helper()
	var m manifest.Manifest
	doc := "name: test\ndescription: test\nversion: \"1\"\ninputs:\n" + inputsYAML
	if err := yaml.Unmarshal([]byte(doc), &m); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	return &m
}

func TestResolve_CLIValueWins(t *testing.T) {
	m := declareInputs(t, `  project_name:
    prompt: Project
    default: fallback
`)

	got, err := Resolve(m, map[string]string{"project_name": "acme"}, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got["project_name"] != "acme" {
		t.Errorf("project_name = %q, want %q", got["project_name"], "acme")
	}
}

func TestResolve_DefaultNonInteractive(t *testing.T) {
	m := declareInputs(t, `  influxdb_url:
    prompt: URL
    required: false
    default: http://localhost:8086
`)

	got, err := Resolve(m, nil, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got["influxdb_url"] != "http://localhost:8086" {
		t.Errorf("influxdb_url = %q, want default", got["influxdb_url"])
	}
}

func TestResolve_MissingRequiredNonInteractive(t *testing.T) {
	m := declareInputs(t, `  project_name:
    prompt: Project
`)

	_, err := Resolve(m, nil, Options{})
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("Resolve() error = %v, want ErrMissingRequired", err)
	}
	if !strings.Contains(err.Error(), "project_name") {
		t.Errorf("error %q should name the missing input", err)
	}
}

func TestResolve_EmptyStringForRequiredIsAbsent(t *testing.T) {
	m := declareInputs(t, `  project_name:
    prompt: Project
`)

	_, err := Resolve(m, map[string]string{"project_name": ""}, Options{})
	if !errors.Is(err, ErrMissingRequired) {
		t.Errorf("Resolve() error = %v, want ErrMissingRequired for explicit empty", err)
	}
}

func TestResolve_EmptyStringForOptionalIsValid(t *testing.T) {
	m := declareInputs(t, `  note:
    prompt: Note
    required: false
    default: something
`)

	got, err := Resolve(m, map[string]string{"note": ""}, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got["note"] != "" {
		t.Errorf("note = %q, want explicit empty kept for optional input", got["note"])
	}
}

func TestResolve_OptionalWithoutDefaultResolvesEmpty(t *testing.T) {
	m := declareInputs(t, `  note:
    prompt: Note
    required: false
`)

	got, err := Resolve(m, nil, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if val, ok := got["note"]; !ok || val != "" {
		t.Errorf("note = %q (present %v), want empty string present", val, ok)
	}
}

func TestResolve_PromptsInDeclarationOrder(t *testing.T) {
	m := declareInputs(t, `  zebra:
    prompt: Z
  apple:
    prompt: A
`)
	p := &scriptedPrompter{answers: []string{"z-val", "a-val"}}

	got, err := Resolve(m, nil, Options{Interactive: true, Prompter: p})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(p.asked) != 2 || p.asked[0] != "zebra" || p.asked[1] != "apple" {
		t.Errorf("asked = %v, want declaration order [zebra apple]", p.asked)
	}
	if got["zebra"] != "z-val" || got["apple"] != "a-val" {
		t.Errorf("resolved = %v", got)
	}
}

func TestResolve_BlankAnswerFallsBackToDefault(t *testing.T) {
	m := declareInputs(t, `  url:
    prompt: URL
    default: http://localhost:8086
`)
	p := &scriptedPrompter{answers: []string{""}}

	got, err := Resolve(m, nil, Options{Interactive: true, Prompter: p})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got["url"] != "http://localhost:8086" {
		t.Errorf("url = %q, want default on blank answer", got["url"])
	}
}

func TestResolve_BlankAnswerRepromptsForRequired(t *testing.T) {
	m := declareInputs(t, `  token:
    prompt: Token
`)
	p := &scriptedPrompter{answers: []string{"", "", "finally"}}

	got, err := Resolve(m, nil, Options{Interactive: true, Prompter: p})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got["token"] != "finally" {
		t.Errorf("token = %q, want re-prompt until non-blank", got["token"])
	}
	if len(p.asked) != 3 {
		t.Errorf("asked %d times, want 3", len(p.asked))
	}
}

func TestResolve_SuppliedSkipsPrompt(t *testing.T) {
	m := declareInputs(t, `  token:
    prompt: Token
`)
	p := &scriptedPrompter{}

	got, err := Resolve(m, map[string]string{"token": "cli-value"}, Options{Interactive: true, Prompter: p})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(p.asked) != 0 {
		t.Errorf("prompted for %v despite CLI value", p.asked)
	}
	if got["token"] != "cli-value" {
		t.Errorf("token = %q", got["token"])
	}
}

func TestTTYPrompter_Ask(t *testing.T) {
	var out strings.Builder
	p := NewTTYPrompter(strings.NewReader("acme\n"), &out)

	val, err := p.Ask("project_name", manifest.InputSpec{Prompt: "Project name"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if val != "acme" {
		t.Errorf("Ask() = %q, want %q", val, "acme")
	}
	if !strings.Contains(out.String(), "Project name") {
		t.Errorf("prompt output = %q, want prompt text shown", out.String())
	}
}

func TestTTYPrompter_ConfirmDefault(t *testing.T) {
	p := NewTTYPrompter(strings.NewReader("\n"), &strings.Builder{})
	ok, err := p.Confirm("Proceed?", true)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if !ok {
		t.Error("Confirm() = false on blank, want default true")
	}
}

func TestTextInputPrompter_FallsBackWhenEditorCannotStart(t *testing.T) {
	var out strings.Builder
	p := NewTextInputPrompter()
	p.run = func(m tea.Model) (tea.Model, error) {
		return nil, errors.New("could not open a new TTY")
	}
	p.fallback = NewTTYPrompter(strings.NewReader("acme\n"), &out)

	val, err := p.Ask("project_name", manifest.InputSpec{Prompt: "Project name"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if val != "acme" {
		t.Errorf("Ask() = %q, want the line-based answer", val)
	}
	if !strings.Contains(out.String(), "Project name") {
		t.Errorf("fallback output = %q, want prompt text shown", out.String())
	}
}

func TestTTYPrompter_ConfirmNo(t *testing.T) {
	p := NewTTYPrompter(strings.NewReader("n\n"), &strings.Builder{})
	ok, err := p.Confirm("Proceed?", true)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if ok {
		t.Error("Confirm() = true for answer n")
	}
}
