package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Buy milk", "Buy milk"},
		{"\x1b[31mred\x1b[0m", "red"},
		{"line\nbreak\ttab", "line break tab"},
		{"bell\a", "bell "},
		{"héllo ✔", "héllo ✔"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 6); got != "hello…" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("x", 0); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 4, 4, "[░░░░] 0/4"},
		{2, 4, 4, "[██░░] 2/4"},
		{4, 4, 4, "[████] 4/4"},
		{0, 0, 2, "[░░] 0/1"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d,%d,%d) = %q, want %q", tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"classic", "neon", "mono"} {
		if got := ThemeByName(name).Name; got != name {
			t.Errorf("ThemeByName(%q).Name = %q", name, got)
		}
	}
	if got := ThemeByName("NEON").Name; got != "neon" {
		t.Errorf("names are case-insensitive, got %q", got)
	}
	if got := ThemeByName("pink").Name; got != "classic" {
		t.Errorf("unknown falls back to classic, got %q", got)
	}
}

func TestPanelAndMessages(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"Todos", "2 pending"})
	out := buf.String()
	for _, want := range []string{"┌", "Todos", "2 pending", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	OK(&buf, "saved")
	Fail(&buf, "boom")
	if got := buf.String(); !strings.Contains(got, "ok saved") || !strings.Contains(got, "error: boom") {
		t.Errorf("messages: %q", got)
	}
}
