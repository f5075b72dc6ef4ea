package domain

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"
)

// RenderEntry formats a single entry as one line.
func RenderEntry(e Entry) string {
	return fmt.Sprintf("%-6s %s %s", e.Action, renderAccount(e.Account), e.Amount)
}

// RenderEntries formats entries as an aligned table, one entry per row.
func RenderEntries(entries []Entry) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ACTION\tACCOUNT\tAMOUNT\t")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", e.Action, renderAccount(e.Account), e.Amount)
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

// RenderTransaction formats a transaction header followed by its entries.
func RenderTransaction(tx *Transaction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Transaction in %s", tx.LedgerSlug)
	if tx.PostedAt != nil {
		fmt.Fprintf(&b, " posted at %s", tx.PostedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")
	if tx.Description != "" {
		fmt.Fprintf(&b, "%s\n", tx.Description)
	}
	b.WriteString(RenderEntries(tx.Entries))

	return b.String()
}

func renderAccount(a AccountReference) string {
	switch a.Kind() {
	case AccountKindSystem:
		return a.AccountSlug()
	case AccountKindEntity:
		return fmt.Sprintf("%s (%s %s)", a.AccountSlug(), a.Prefix(), a.ExternalID())
	default:
		return "<unset>"
	}
}
