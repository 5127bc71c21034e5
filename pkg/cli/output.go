package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/GF0201/CWKGQA/pkg/intent"
)

// Color functions for terminal output
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Success prints a success message in green
func Success(msg string) {
	successColor.Println(msg)
}

// Error prints an error message in red
func Error(msg string) {
	errorColor.Println(msg)
}

// Warning prints a warning message in yellow
func Warning(msg string) {
	warningColor.Println(msg)
}

// Info prints an info message in cyan
func Info(msg string) {
	infoColor.Println(msg)
}

// IsTerminal returns true if stdout is attached to a terminal. Table output
// is only rendered interactively; piped output stays JSONL.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RenderIntentTable prints one row per question with its top intent and
// flags.
func RenderIntentTable(rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Top Intent", "Score", "Multi", "Ambiguous", "Clarification"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

// RenderEnforcementTable prints one row per response with its decision.
func RenderEnforcementTable(rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Action", "Final Answer", "Coverage", "Retry"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

// TopIntent returns the leading label and score of a prediction, or the
// UNKNOWN sentinel when the prediction is empty.
func TopIntent(pred intent.Prediction) (string, float64) {
	if len(pred.Intents) == 0 {
		return intent.UnknownLabel, 0.0
	}
	return pred.Intents[0].Label, pred.Intents[0].Score
}
