// Package envfile renders and writes the key=value environment file that
// accompanies installed hook scripts.
package envfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iowarp/iowarp-hooks/internal/template"
	"github.com/iowarp/iowarp-hooks/internal/util"
)

// Render substitutes resolved input values into an environment template,
// using the same placeholder rules as command rendering. The result always
// ends with a single newline.
func Render(tmpl string, vars map[string]string) (string, error) {
	out, err := template.Render(tmpl, vars)
	if err != nil {
		return "", fmt.Errorf("rendering environment template: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// Lines formats a static environment map as sorted KEY=value lines, quoting
// values that contain shell metacharacters.
func Lines(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, Quote(env[k]))
	}
	return b.String()
}

// Write stores rendered environment content at path atomically. Environment
// files frequently hold tokens, so they are written owner-readable only.
func Write(path, content string) error {
	return util.AtomicWriteFile(path, []byte(content), 0600)
}

// Quote returns a shell-safe quoted string. Values without special
// characters pass through unchanged; everything else is single-quoted with
// embedded single quotes escaped via the '\” idiom.
func Quote(s string) string {
	needsQuoting := false
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '"', '\'', '`', '$', '\\', '!', '*', '?',
			'[', ']', '{', '}', '(', ')', '<', '>', '|', '&', ';', '#':
			needsQuoting = true
		}
		if needsQuoting {
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
