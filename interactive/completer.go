// Package interactive wraps chzyer/readline into a catalog-aware operator
// shell: tab completion and command-line highlighting are both driven by
// the live command tree rather than a hardcoded list, so a loaded
// extension module's commands complete exactly like core ones.
package interactive

import "strings"

// ANSI color codes, matching the teacher's highlighting scheme.
const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	GreenFG   = "\x1b[32m"
	YellowFG  = "\x1b[33m"
	RedFG     = "\x1b[31m"
	BlueFG    = "\x1b[34m"
	CyanFG    = "\x1b[36m"
	ResetFG   = "\x1b[39m"
	BoldReset = "\x1b[22m"
)

// CatalogSource is the read-only view a Completer needs of the live
// catalog. *catalog.Commander satisfies it directly.
type CatalogSource interface {
	CommandLines() []string
}

// Completer drives readline's tab completion and line highlighting from a
// catalog's current command tree.
type Completer struct {
	catalog CatalogSource
}

// NewCompleter builds a Completer over cat. cat's CommandLines() is
// re-read on every Complete/IsValidCommand call, so extension modules
// loaded after the shell starts complete immediately.
func NewCompleter(cat CatalogSource) *Completer {
	return &Completer{catalog: cat}
}

// commandNames returns the first word of every dispatchable line the
// catalog reports, deduplicated. "help" is always included even though
// the catalog itself never lists it.
func (c *Completer) commandNames() []string {
	seen := map[string]bool{"help": true}
	names := []string{"help"}
	for _, line := range c.catalog.CommandLines() {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] == "help" {
			continue
		}
		if !seen[fields[0]] {
			seen[fields[0]] = true
			names = append(names, fields[0])
		}
	}
	return names
}

// dispatchLines returns every full "cmd" / "cmd sub" / "help ..." line the
// catalog reports, for completing beyond the first word.
func (c *Completer) dispatchLines() []string {
	return c.catalog.CommandLines()
}

// IsValidCommand reports whether cmd names a dispatchable top-level
// command (including "help").
func (c *Completer) IsValidCommand(cmd string) bool {
	cmd = strings.ToLower(strings.TrimSpace(cmd))
	for _, name := range c.commandNames() {
		if name == cmd {
			return true
		}
	}
	return false
}

// Complete returns candidate completions for the partial line typed so
// far, one word at a time: the first word completes against known
// command names, subsequent words complete against catalog lines sharing
// the same prefix.
func (c *Completer) Complete(line string) []string {
	trimmedLine := strings.TrimLeft(line, " \t")
	parts := strings.Fields(trimmedLine)
	endsInSpace := trimmedLine == "" || strings.HasSuffix(line, " ")

	if len(parts) == 0 {
		out := make([]string, 0, len(c.commandNames()))
		for _, name := range c.commandNames() {
			out = append(out, name+" ")
		}
		return out
	}

	if len(parts) == 1 && !endsInSpace {
		prefix := strings.ToLower(parts[0])
		var out []string
		for _, name := range c.commandNames() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name+" ")
			}
		}
		return out
	}

	prefix := strings.Join(parts, " ")
	if endsInSpace {
		prefix += " "
	}
	var out []string
	for _, full := range c.dispatchLines() {
		if strings.HasPrefix(full, prefix) && full != prefix {
			out = append(out, full+" ")
		}
	}
	return out
}

// HighlightCommand colors a command token green when it resolves against
// the catalog, yellow otherwise.
func HighlightCommand(cmd string, isValid bool) string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return cmd
	}
	if isValid {
		return Bold + GreenFG + cmd + ResetFG + BoldReset
	}
	return Bold + YellowFG + cmd + ResetFG + BoldReset
}

// HighlightLine colors the command word of a full input line, leaving the
// rest of the line untouched.
func (c *Completer) HighlightLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return line
	}

	parts := strings.Fields(trimmed)
	cmd := parts[0]
	highlighted := HighlightCommand(cmd, c.IsValidCommand(cmd))

	if len(parts) > 1 {
		highlighted += " " + strings.Join(parts[1:], " ")
	}
	return highlighted
}
