package cmd

import "github.com/fatih/color"

// color honours NO_COLOR and disables itself when stdout is not a terminal.
var (
	infoColor    = color.New(color.FgHiBlack)
	promptColor  = color.New(color.FgCyan)
	warningColor = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// Info returns text colored in gray for informational messages
func Info(text string) string {
	return infoColor.Sprint(text)
}

// Prompt returns text colored in cyan for prompt symbols
func Prompt(text string) string {
	return promptColor.Sprint(text)
}

// Warning returns text colored in red for warnings and critical messages
func Warning(text string) string {
	return warningColor.Sprint(text)
}

// Success returns text colored in green for success messages
func Success(text string) string {
	return successColor.Sprint(text)
}

// SchemaName returns text colored in cyan for schema names
func SchemaName(text string) string {
	return promptColor.Sprint(text)
}
