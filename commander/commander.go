// Package commander implements the engine's top-level dispatch loop:
// resolving a command name against the catalog, invoking the binder,
// routing "help", and recursing through exec-chained commands.
package commander

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/undefo/AdaptixC2/binder"
	"github.com/undefo/AdaptixC2/catalog"
	"github.com/undefo/AdaptixC2/core"
	"github.com/undefo/AdaptixC2/expand"
	"github.com/undefo/AdaptixC2/help"
	"github.com/undefo/AdaptixC2/tokenize"
)

// maxExecDepth bounds exec-chain recursion. The original source recurses
// unconditionally (spec.md §9 leaves this an open question); we take the
// "carry an explicit depth counter" branch and surface an error once a
// catalog's exec chain nests deeper than a real command tree ever would.
const maxExecDepth = 32

// Dispatcher ties the tokenizer, catalog, binder and template expander
// together into ProcessInput. It holds no catalog state of its own; the
// *catalog.Commander passed to New remains the single owner of the command
// tree, matching spec.md §5 ("the catalog is owned exclusively by the
// engine instance").
type Dispatcher struct {
	catalog  *catalog.Commander
	expander *expand.Expander
	logger   *core.Logger
	history  History
}

// History receives a record of every ProcessInput call, win or error. A nil
// History (the default) disables recording; see the history package for
// the engine's default sqlite-backed implementation.
type History interface {
	Record(line string, result catalog.CommanderResult)
}

// New builds a Dispatcher over cat, expanding exec strings with expander.
// logger may be nil.
func New(cat *catalog.Commander, expander *expand.Expander, logger *core.Logger) *Dispatcher {
	if logger != nil {
		logger = logger.WithComponent("commander")
	}
	return &Dispatcher{catalog: cat, expander: expander, logger: logger}
}

// WithHistory attaches a History sink; every ProcessInput call is recorded
// after dispatch completes.
func (d *Dispatcher) WithHistory(h History) *Dispatcher {
	d.history = h
	return d
}

// ProcessInput tokenizes line, resolves and dispatches the named command,
// and returns the operator- or agent-facing result.
func (d *Dispatcher) ProcessInput(agentData catalog.AgentData, line string) catalog.CommanderResult {
	result := d.dispatch(agentData, line, 0)
	if d.history != nil {
		d.history.Record(line, result)
	}
	return result
}

func (d *Dispatcher) dispatch(agentData catalog.AgentData, line string, depth int) catalog.CommanderResult {
	tokens := tokenize.Tokenize(line)
	if len(tokens) == 0 {
		return catalog.CommanderResult{Handled: true, Message: "", Error: false}
	}

	name := tokens[0]
	rest := tokens[1:]

	if name == "help" {
		return help.Render(d.catalog, rest)
	}

	if depth > maxExecDepth {
		return errResult("exec recursion limit exceeded")
	}

	cmd, extDir, constants, found := d.resolve(name)
	if !found {
		d.logf("unresolved command %q", name)
		return errResult("Command not found")
	}

	if cmd.IsGroup() {
		return d.dispatchGroup(agentData, cmd, extDir, constants, rest, depth)
	}
	return d.dispatchLeaf(agentData, cmd, extDir, constants, rest, depth)
}

func (d *Dispatcher) dispatchGroup(agentData catalog.AgentData, cmd catalog.Command, extDir string, constants map[string]map[string]string, rest []string, depth int) catalog.CommanderResult {
	if len(rest) == 0 {
		return errResult("Subcommand must be set")
	}
	subName := rest[0]

	var sub catalog.Command
	found := false
	for _, s := range cmd.Subcommands() {
		if s.Name == subName {
			sub = s
			found = true
			break
		}
	}
	if !found {
		return errResult(fmt.Sprintf("Unknown subcommand: %s", subName))
	}

	bound, err := binder.Bind(rest[1:], sub.Args(), sub.Message, true)
	if err != nil {
		return errResult(err.Error())
	}

	return d.finish(agentData, cmd.Name, sub.Name, sub.Exec, extDir, constants, bound, depth)
}

func (d *Dispatcher) dispatchLeaf(agentData catalog.AgentData, cmd catalog.Command, extDir string, constants map[string]map[string]string, rest []string, depth int) catalog.CommanderResult {
	bound, err := binder.Bind(rest, cmd.Args(), cmd.Message, false)
	if err != nil {
		return errResult(err.Error())
	}

	return d.finish(agentData, cmd.Name, "", cmd.Exec, extDir, constants, bound, depth)
}

// finish assembles the bound payload into jsonObj, and either returns it
// directly (no exec) or expands exec and recurses (§4.6, §4.7 step 4).
func (d *Dispatcher) finish(agentData catalog.AgentData, cmdName, subName, execStr, extDir string, constants map[string]map[string]string, bound binder.Result, depth int) catalog.CommanderResult {
	jsonObj := make(map[string]interface{}, len(bound.Payload)+3)
	for k, v := range bound.Payload {
		jsonObj[k] = v
	}
	jsonObj["command"] = cmdName
	if subName != "" {
		jsonObj["subcommand"] = subName
	}
	if bound.Message != "" {
		jsonObj["message"] = bound.Message
	}

	if execStr == "" {
		return d.marshalResult(jsonObj)
	}

	if d.expander == nil {
		return errResult("exec expansion unavailable")
	}

	expanded := d.expander.Expand(execStr, agentData.Arch, extDir, constants, jsonObj)
	d.logf("exec chain at depth %d: %s", depth+1, expanded)

	inner := d.dispatch(agentData, expanded, depth+1)
	if inner.Error || inner.Handled {
		return inner
	}
	return overwriteMessage(inner, bound.Message)
}

func (d *Dispatcher) marshalResult(jsonObj map[string]interface{}) catalog.CommanderResult {
	data, err := json.Marshal(jsonObj)
	if err != nil {
		return errResult(fmt.Sprintf("failed to encode payload: %v", err))
	}
	return catalog.CommanderResult{Handled: false, Message: string(data), Error: false}
}

// overwriteMessage replaces the "message" field of an already-marshaled
// JSON payload with outerMessage, per spec.md §4.6's recursion rule: the
// outer command's message always wins over whatever its exec chain
// produced.
func overwriteMessage(inner catalog.CommanderResult, outerMessage string) catalog.CommanderResult {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(inner.Message), &obj); err != nil {
		return inner
	}
	obj["message"] = outerMessage
	data, err := json.Marshal(obj)
	if err != nil {
		return inner
	}
	return catalog.CommanderResult{Handled: false, Message: string(data), Error: false}
}

// resolve searches the core command list, then each extension module in
// insertion order. Core wins on name collision (spec.md §3 Invariants).
func (d *Dispatcher) resolve(name string) (catalog.Command, string, map[string]map[string]string, bool) {
	for _, cmd := range d.catalog.Commands() {
		if cmd.Name == name {
			return cmd, "", nil, true
		}
	}
	for _, mod := range d.catalog.ExtModulesOrdered() {
		for _, cmd := range mod.Commands {
			if cmd.Name == name {
				return cmd, extDirOf(mod), constantsOf(mod), true
			}
		}
	}
	return catalog.Command{}, "", nil, false
}

func extDirOf(mod catalog.ExtModule) string {
	if mod.FilePath == "" {
		return ""
	}
	dir := filepath.Dir(mod.FilePath)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func constantsOf(mod catalog.ExtModule) map[string]map[string]string {
	if len(mod.Constants) == 0 {
		return nil
	}
	out := make(map[string]map[string]string, len(mod.Constants))
	for name, c := range mod.Constants {
		out[name] = c.Map
	}
	return out
}

func errResult(message string) catalog.CommanderResult {
	return catalog.CommanderResult{Handled: true, Message: message, Error: true}
}

// logf is a no-op when the Dispatcher was built with a nil logger, sparing
// every call site the nil check.
func (d *Dispatcher) logf(format string, v ...interface{}) {
	if d.logger != nil {
		d.logger.Debug(format, v...)
	}
}
