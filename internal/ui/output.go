package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SetColorEnabled(false) strips every colour and text attribute from
// rendered output, whatever the terminal supports.
func SetColorEnabled(on bool) {
	if !on {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Render(current.SymDone+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Render(current.SymFail+" "+msg))
}

func Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Muted.Render("Hint: "+msg))
}
