package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/recipegen/pkg/errors"
	"github.com/matzehuels/recipegen/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - counts
	colorGreen = lipgloss.Color("35")  // Green - success
	colorRed   = lipgloss.Color("167") // Soft red - errors
	colorGray  = lipgloss.Color("245") // Gray - labels
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
	colorWhite = lipgloss.Color("255") // Bright white - values
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	styleLabel  = lipgloss.NewStyle().Foreground(colorGray).Width(10)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

// =============================================================================
// Run Summary
// =============================================================================

// printSummary writes a one-line run summary to w, followed by the failed
// packages and the output root. Outcome lines are printed by the runner; the
// summary only ever goes to stderr.
func printSummary(w io.Writer, r *pipeline.Report, root string, elapsed time.Duration) {
	parts := []string{
		styleIconSuccess.Render(iconSuccess) + " " + styleNumber.Render(fmt.Sprint(r.Succeeded())) + " dumped",
		styleIconError.Render(iconError) + " " + styleNumber.Render(fmt.Sprint(r.Failed())) + " failed",
		styleNumber.Render(fmt.Sprint(r.Files())) + " files",
	}
	fmt.Fprintln(w, strings.Join(parts, styleDim.Render(" · "))+" "+
		styleDim.Render("("+elapsed.Round(time.Millisecond).String()+")"))

	for _, res := range r.Results {
		if res.Err == nil {
			continue
		}
		printKeyValue(w, res.Name, codeOf(res.Err))
	}
	if r.Files() > 0 {
		fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(root))
	}
}

// printKeyValue writes an indented, labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, "  "+styleLabel.Render(key)+" "+styleDim.Render(value))
}

// codeOf returns the error code of err, or "error" for uncoded errors.
func codeOf(err error) string {
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}
