// Package help renders the operator-facing help views spec.md §4.8
// describes: the full catalog table, a single command's detail view, and
// a single subcommand's detail view.
package help

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/undefo/AdaptixC2/argspec"
	"github.com/undefo/AdaptixC2/catalog"
)

const (
	commandColumnWidth    = 24
	subcommandColumnWidth = 20
)

// Render dispatches on len(args): no args lists the whole catalog, one arg
// shows a command's detail, two args show a subcommand's detail. Any other
// arity is an error.
func Render(cat *catalog.Commander, args []string) catalog.CommanderResult {
	switch len(args) {
	case 0:
		return catalog.CommanderResult{Handled: true, Message: renderCatalog(cat), Error: false}
	case 1:
		return renderCommand(cat, args[0])
	case 2:
		return renderSubcommand(cat, args[0], args[1])
	default:
		return catalog.CommanderResult{Handled: true, Message: "Usage: help [command] [subcommand]", Error: true}
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	style := table.StyleDefault
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = true
	style.Options.SeparateHeader = true
	style.Options.SeparateFooter = false
	style.Options.SeparateRows = false
	t.SetStyle(style)
	return t
}

// renderCatalog tabulates every core command, followed by a labeled
// section per extension module, in insertion order. A trailing "*" marks
// commands that dispatch through subcommands.
func renderCatalog(cat *catalog.Commander) string {
	var b strings.Builder

	t := newTable()
	t.AppendHeader(table.Row{"Command", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: commandColumnWidth, WidthMax: commandColumnWidth},
	})
	for _, cmd := range cat.Commands() {
		t.AppendRow(table.Row{commandLabel(cmd), cmd.Description})
	}
	b.WriteString(t.Render())

	for _, mod := range cat.ExtModulesOrdered() {
		b.WriteString("\n\n")
		b.WriteString(mod.Name)
		b.WriteString(":\n")

		et := newTable()
		et.AppendHeader(table.Row{"Command", "Description"})
		et.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, WidthMin: commandColumnWidth, WidthMax: commandColumnWidth},
		})
		for _, cmd := range mod.Commands {
			et.AppendRow(table.Row{commandLabel(cmd), cmd.Description})
		}
		b.WriteString(et.Render())
	}

	return b.String()
}

func commandLabel(cmd catalog.Command) string {
	if cmd.IsGroup() {
		return cmd.Name + "*"
	}
	return cmd.Name
}

func renderCommand(cat *catalog.Commander, name string) catalog.CommanderResult {
	cmd, found := findCommand(cat, name)
	if !found {
		return catalog.CommanderResult{Handled: true, Message: "Unknown command: " + name, Error: true}
	}

	var b strings.Builder
	writeDescriptionBlock(&b, cmd.Description, cmd.Example)

	if cmd.IsGroup() {
		writeSubcommandTable(&b, cmd.Subcommands())
	} else {
		writeArgumentTable(&b, cmd.Name, cmd.Args())
	}

	return catalog.CommanderResult{Handled: true, Message: b.String(), Error: false}
}

func renderSubcommand(cat *catalog.Commander, name, subName string) catalog.CommanderResult {
	cmd, found := findCommand(cat, name)
	if !found {
		return catalog.CommanderResult{Handled: true, Message: "Unknown command: " + name, Error: true}
	}
	if !cmd.IsGroup() {
		return catalog.CommanderResult{Handled: true, Message: "Unknown subcommand: " + subName, Error: true}
	}

	var sub catalog.Command
	ok := false
	for _, s := range cmd.Subcommands() {
		if s.Name == subName {
			sub = s
			ok = true
			break
		}
	}
	if !ok {
		return catalog.CommanderResult{Handled: true, Message: "Unknown subcommand: " + subName, Error: true}
	}

	var b strings.Builder
	writeDescriptionBlock(&b, sub.Description, sub.Example)
	writeArgumentTable(&b, cmd.Name+" "+sub.Name, sub.Args())

	return catalog.CommanderResult{Handled: true, Message: b.String(), Error: false}
}

func writeDescriptionBlock(b *strings.Builder, description, example string) {
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n")
	}
	if example != "" {
		b.WriteString("Example: ")
		b.WriteString(example)
		b.WriteString("\n")
	}
}

func writeSubcommandTable(b *strings.Builder, subs []catalog.Command) {
	t := newTable()
	t.AppendHeader(table.Row{"Subcommand", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: subcommandColumnWidth, WidthMax: subcommandColumnWidth},
	})
	for _, sub := range subs {
		t.AppendRow(table.Row{sub.Name, sub.Description})
	}
	b.WriteString(t.Render())
}

func writeArgumentTable(b *strings.Builder, usageName string, args []argspec.Argument) {
	b.WriteString("Usage: ")
	b.WriteString(usageName)
	for _, arg := range args {
		b.WriteString(" ")
		b.WriteString(argBracket(arg))
	}
	b.WriteString("\n")

	if len(args) == 0 {
		return
	}

	t := newTable()
	t.AppendHeader(table.Row{"Argument", "Type", "Default", "Description"})
	for _, arg := range args {
		t.AppendRow(table.Row{argBracket(arg), arg.Type, arg.DefaultValue, arg.Description})
	}
	b.WriteString(t.Render())
}

// argBracket reconstructs the DSL's bracket form for display, e.g.
// "<-t target>" or "[path]".
func argBracket(arg argspec.Argument) string {
	var inner string
	if arg.Flag {
		inner = arg.Mark
		if arg.Name != "" {
			inner += " " + arg.Name
		}
	} else {
		inner = arg.Name
	}

	if arg.Required {
		return "<" + inner + ">"
	}
	return "[" + inner + "]"
}

func findCommand(cat *catalog.Commander, name string) (catalog.Command, bool) {
	for _, cmd := range cat.Commands() {
		if cmd.Name == name {
			return cmd, true
		}
	}
	for _, mod := range cat.ExtModulesOrdered() {
		for _, cmd := range mod.Commands {
			if cmd.Name == name {
				return cmd, true
			}
		}
	}
	return catalog.Command{}, false
}
