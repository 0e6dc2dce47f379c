package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#2E86C1")
	mutedColor  = lipgloss.Color("#888888")
	errorColor  = lipgloss.Color("#C0392B")
	okColor     = lipgloss.Color("#27AE60")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(okColor)
)

func printError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error:"), message)
}

func printKV(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render(key+":"), valueStyle.Render(fmt.Sprint(value)))
}
