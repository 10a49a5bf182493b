package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sells-group/cardscan/internal/model"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgWhite, color.Bold)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed, color.Bold)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confidenceColor picks green above 0.7, yellow above 0.4, red otherwise.
func confidenceColor(v float64) *color.Color {
	switch {
	case v >= 0.7:
		return goodColor
	case v >= 0.4:
		return warnColor
	}
	return badColor
}

// printResult writes a human-readable summary of one card.
func printResult(w io.Writer, r model.Result) {
	title := r.Image
	if title == "" {
		title = r.ID
	}
	headerColor.Fprintf(w, "== %s\n", title)

	if !r.Success {
		badColor.Fprintf(w, "  failed (%s): %s\n", r.FailureKind, r.Error)
		if !r.Contact.HasContact() {
			return
		}
	}

	c := r.Contact
	row := func(label, value string, conf float64) {
		if value == "" {
			return
		}
		labelColor.Fprintf(w, "  %-9s", label)
		fmt.Fprintf(w, " %s ", value)
		confidenceColor(conf).Fprintf(w, "(%.2f)\n", conf)
	}
	fc := r.FieldConfidence
	row("name", model.Value(c.Name), fc.Name)
	row("title", model.Value(c.Title), fc.Title)
	row("company", model.Value(c.Company), fc.Company)
	row("email", model.Value(c.Email), fc.Email)
	row("phone", strings.Join(c.Phone, ", "), fc.Phone)
	row("website", model.Value(c.Website), fc.Website)
	row("address", model.Value(c.Address), fc.Address)
	row("linkedin", model.Value(c.LinkedIn), fc.LinkedIn)
	row("twitter", model.Value(c.Twitter), fc.Twitter)

	labelColor.Fprintf(w, "  %-9s", "method")
	fmt.Fprintf(w, " %s", r.Method)
	if r.Escalation.State != "" {
		fmt.Fprintf(w, ", %s", r.Escalation.State)
	}
	if len(r.Escalation.Reasons) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(r.Escalation.Reasons, ", "))
	}
	if r.Escalation.Degraded {
		warnColor.Fprint(w, " degraded")
	}
	fmt.Fprintln(w)

	labelColor.Fprintf(w, "  %-9s", "score")
	confidenceColor(c.ConfidenceScore).Fprintf(w, " %.3f\n", c.ConfidenceScore)

	if e := r.Enrichment; e != nil {
		labelColor.Fprintf(w, "  %-9s", "enriched")
		fmt.Fprintf(w, " %s\n", strings.Join(e.Sources, ", "))
		if e.Industry != "" {
			fmt.Fprintf(w, "            industry: %s\n", e.Industry)
		}
		for _, msg := range e.Errors {
			warnColor.Fprintf(w, "            %s\n", msg)
		}
	}
}

// printBatch writes every card summary followed by the totals.
func printBatch(w io.Writer, br model.BatchResult) {
	for _, r := range br.Results {
		printResult(w, r)
	}
	fmt.Fprintln(w)
	headerColor.Fprintf(w, "batch %s: ", br.ID)
	fmt.Fprintf(w, "%d total, ", br.Total)
	goodColor.Fprintf(w, "%d ok", br.Successful)
	fmt.Fprint(w, ", ")
	if br.Failed > 0 {
		badColor.Fprintf(w, "%d failed\n", br.Failed)
	} else {
		fmt.Fprintf(w, "%d failed\n", br.Failed)
	}
}
