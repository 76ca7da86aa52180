// Package template implements placeholder substitution for hook set files
// and command strings.
//
// Two placeholder syntaxes are recognized: {{name}} (preferred) and {name}
// (kept for manifests written against the original installer). Substitution
// is literal text replacement over an immutable variable map; no expressions,
// no code evaluation. Shell parameter references like ${HOME} are left alone.
package template

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolvedVariable is returned when a template references a variable
// that is not present in the variable map.
var ErrUnresolvedVariable = errors.New("unresolved template variable")

// placeholder is one recognized variable reference inside a template.
type placeholder struct {
	name  string // variable name
	start int    // byte offset of the opening brace
	end   int    // byte offset just past the closing brace
}

// Render substitutes every recognized placeholder in s with its value from
// vars. It returns ErrUnresolvedVariable (wrapped with the variable name) if
// a placeholder names a variable absent from vars. Rendering is pure and
// idempotent: output text contains no placeholders, so rendering it again is
// the identity.
func Render(s string, vars map[string]string) (string, error) {
	refs := scan(s)
	if len(refs) == 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, ref := range refs {
		val, ok := vars[ref.name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnresolvedVariable, ref.name)
		}
		b.WriteString(s[last:ref.start])
		b.WriteString(val)
		last = ref.end
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// RenderKnown substitutes only the placeholders whose names appear in vars
// and leaves everything else untouched. It is used for hook script file
// contents, where brace pairs are often part of the code itself (Python
// f-strings, JSON literals) rather than template references. Command strings
// and environment templates go through the strict Render instead.
func RenderKnown(s string, vars map[string]string) string {
	refs := scan(s)
	if len(refs) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, ref := range refs {
		val, ok := vars[ref.name]
		if !ok {
			continue
		}
		b.WriteString(s[last:ref.start])
		b.WriteString(val)
		last = ref.end
	}
	b.WriteString(s[last:])
	return b.String()
}

// Vars returns the distinct variable names referenced by s, in order of
// first appearance. The manifest loader uses this for referential-integrity
// checks before any file I/O happens.
func Vars(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, ref := range scan(s) {
		if !seen[ref.name] {
			seen[ref.name] = true
			names = append(names, ref.name)
		}
	}
	return names
}

// scan finds all placeholders in s, left to right, non-overlapping.
func scan(s string) []placeholder {
	var refs []placeholder
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		// ${name} is a shell reference, not a template placeholder.
		if i > 0 && s[i-1] == '$' {
			continue
		}
		double := i+1 < len(s) && s[i+1] == '{'
		nameStart := i + 1
		if double {
			nameStart = i + 2
		}
		j := nameStart
		for j < len(s) && isNameByte(s[j]) {
			j++
		}
		if j == nameStart {
			continue // empty braces or non-identifier content
		}
		if double {
			if j+1 < len(s) && s[j] == '}' && s[j+1] == '}' {
				refs = append(refs, placeholder{name: s[nameStart:j], start: i, end: j + 2})
				i = j + 1
			}
			continue
		}
		if j < len(s) && s[j] == '}' {
			refs = append(refs, placeholder{name: s[nameStart:j], start: i, end: j + 1})
			i = j
		}
	}
	return refs
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
