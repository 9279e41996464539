// Package style provides consistent terminal styling using Lipgloss.
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Core styles used across all tw output.
var (
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Faint(true)

	// Critical is reserved for hard-veto messages: the operator must be
	// able to tell "tw refused to run this" from ordinary errors.
	Critical = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Successf prints a success line with a checkmark.
func Successf(format string, args ...any) {
	fmt.Printf("%s %s\n", Success.Render("✓"), fmt.Sprintf(format, args...))
}

// Warnf prints a warning line to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Warning.Render("⚠"), fmt.Sprintf(format, args...))
}

// Errorf prints an error line to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Error.Render("✖"), fmt.Sprintf(format, args...))
}

// Criticalf prints a hard-veto line to stderr with the CRITICAL prefix.
func Criticalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Critical.Render("CRITICAL:"), fmt.Sprintf(format, args...))
}
