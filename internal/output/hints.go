package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":          {"whoami", "benefit list", "claims"},
	"logout":         {"login"},
	"whoami":         {"benefit list", "claims"},
	"providers":      {"login <provider>"},
	"benefit list":   {"benefit create", "benefit claims <uuid>", "benefit status <uuid> <status>"},
	"benefit create": {"benefit list"},
	"benefit status": {"benefit list"},
	"benefit claims": {"benefit list"},
	"show":           {"claim <uuid>"},
	"claim":          {"claims"},
	"claims":         {"show <uuid>"},
	"status":         {"benefit list", "claims"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "redeemctl " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
