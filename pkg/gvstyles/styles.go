package gvstyles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/txn2/gefview/pkg/gvcfg"
)

// Styles for the text the viewer prints around the display region.
// Display rows themselves are printed verbatim.
var (
	PromptStyle lipgloss.Style
	KeyStyle    lipgloss.Style
	NoticeStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
)

func init() {
	applyTheme()
}

func applyTheme() {
	colorYellow := lipgloss.Color("226")
	colorGray := lipgloss.Color("243")
	colorRed := lipgloss.Color("196")

	PromptStyle = lipgloss.NewStyle().Foreground(colorGray)
	KeyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	NoticeStyle = lipgloss.NewStyle().Foreground(colorYellow)
	ErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
}

// ProfileFor picks the colour profile for a color mode. In auto mode
// colour is used only on a terminal and when NO_COLOR is unset.
func ProfileFor(mode string, isTTY bool) termenv.Profile {
	switch mode {
	case gvcfg.ColorNever:
		return termenv.Ascii
	case gvcfg.ColorAlways:
		return termenv.ANSI256
	}
	if !isTTY || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// SetColorMode applies a color mode to every style
func SetColorMode(mode string, isTTY bool) {
	lipgloss.SetColorProfile(ProfileFor(mode, isTTY))
	applyTheme()
}

// Prompt is the text shown below the display region
func Prompt() string {
	return PromptStyle.Render("Press ") + KeyStyle.Render("'q'") + PromptStyle.Render(" to exit: ")
}

// Notice formats an informational message
func Notice(msg string) string {
	return NoticeStyle.Render(msg)
}

// Error formats an error message
func Error(msg string) string {
	return ErrorStyle.Render(msg)
}
