package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRender(t *testing.T) {
	got, err := Render("PROJECT={{project_name}}\nURL={influxdb_url}", map[string]string{
		"project_name": "acme",
		"influxdb_url": "http://localhost:8086",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "PROJECT=acme\nURL=http://localhost:8086\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_Unresolved(t *testing.T) {
	_, err := Render("TOKEN={{token}}", map[string]string{})
	if err == nil {
		t.Error("Render() error = nil, want unresolved variable error")
	}
}

func TestLines_SortedAndQuoted(t *testing.T) {
	got := Lines(map[string]string{
		"ZED":   "plain",
		"TOKEN": "has space",
	})
	want := "TOKEN='has space'\nZED=plain\n"
	if got != want {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestWrite_OwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := Write(path, "A=b\n"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 0600", perm)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"has space", "'has space'"},
		{"it's", `'it'\''s'`},
		{"a$b", "'a$b'"},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
