// Package cli provides the command-line interface for crucible.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/crucible-dev/crucible/internal/errors"
)

// Styles used for text output. Rendering degrades to plain text when the
// terminal does not support color.
var (
	styleHeader  = lipgloss.NewStyle().Bold(true)                              //nolint:gochecknoglobals // Package-level styles
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))        //nolint:gochecknoglobals // Package-level styles
	styleFailure = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true) //nolint:gochecknoglobals // Package-level styles
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))         //nolint:gochecknoglobals // Package-level styles
)

// CheckNoColor disables lipgloss color rendering when NO_COLOR is set.
// Follows the NO_COLOR standard: any value, including empty, disables color.
func CheckNoColor() {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Output renders command results as styled text or JSON.
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates an Output for the given writer and format.
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// IsJSON reports whether the output format is JSON.
func (o *Output) IsJSON() bool {
	return o.format == OutputJSON
}

// JSON writes v as indented JSON. Only valid in JSON mode.
func (o *Output) JSON(v any) error {
	if !o.IsJSON() {
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "%q", o.format)
	}
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a bold section header line.
func (o *Output) Header(text string) {
	fmt.Fprintln(o.w, styleHeader.Render(text))
}

// Line writes an unstyled line.
func (o *Output) Line(format string, args ...any) {
	fmt.Fprintf(o.w, format+"\n", args...)
}

// Success writes a green success line.
func (o *Output) Success(format string, args ...any) {
	fmt.Fprintln(o.w, styleSuccess.Render(fmt.Sprintf(format, args...)))
}

// Failure writes a red failure line.
func (o *Output) Failure(format string, args ...any) {
	fmt.Fprintln(o.w, styleFailure.Render(fmt.Sprintf(format, args...)))
}

// Muted writes a dimmed detail line.
func (o *Output) Muted(format string, args ...any) {
	fmt.Fprintln(o.w, styleMuted.Render(fmt.Sprintf(format, args...)))
}
