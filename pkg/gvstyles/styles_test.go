package gvstyles_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/txn2/gefview/pkg/gvcfg"
	"github.com/txn2/gefview/pkg/gvstyles"
)

func TestProfileFor(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	tests := []struct {
		name  string
		mode  string
		isTTY bool
		want  termenv.Profile
	}{
		{"never on tty", gvcfg.ColorNever, true, termenv.Ascii},
		{"always off tty", gvcfg.ColorAlways, false, termenv.ANSI256},
		{"auto off tty", gvcfg.ColorAuto, false, termenv.Ascii},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gvstyles.ProfileFor(tt.mode, tt.isTTY); got != tt.want {
				t.Errorf("ProfileFor(%q, %v) = %v, want %v", tt.mode, tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestProfileFor_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if got := gvstyles.ProfileFor(gvcfg.ColorAuto, true); got != termenv.Ascii {
		t.Errorf("Expected NO_COLOR to disable colour, got %v", got)
	}
}

func TestPromptPlain(t *testing.T) {
	gvstyles.SetColorMode(gvcfg.ColorNever, false)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	if got := gvstyles.Prompt(); got != "Press 'q' to exit: " {
		t.Errorf("Prompt() = %q", got)
	}
	if got := gvstyles.Notice("hello"); got != "hello" {
		t.Errorf("Notice() = %q", got)
	}
}

func TestPromptColored(t *testing.T) {
	gvstyles.SetColorMode(gvcfg.ColorAlways, true)
	defer gvstyles.SetColorMode(gvcfg.ColorNever, false)

	got := gvstyles.Prompt()
	if !strings.Contains(got, "'q'") {
		t.Errorf("Prompt() lost its text: %q", got)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Expected escape sequences in coloured prompt, got %q", got)
	}
	if gvstyles.Error("boom") == "" {
		t.Error("Error() rendered empty string")
	}
}
