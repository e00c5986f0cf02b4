package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dhamidi/jsdocgen/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	summaryColor = color.New(color.Bold)
)

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	}
	return infoColor
}

// printDiagnostics writes one line per diagnostic, ordered by location
// and followed by a summary, e.g.
//
//	a.js:3:1: warning SignatureMismatch: no @param for height
func printDiagnostics(w io.Writer, list *diag.List) {
	if list == nil || list.Len() == 0 {
		return
	}
	var errs, warnings int
	for _, d := range list.Sorted() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warnings++
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n", d.Pos, severityColor(d.Severity).Sprint(d.Severity), d.Kind, d.Message)
	}
	summaryColor.Fprintf(w, "%s, %s\n", plural(errs, "error"), plural(warnings, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
