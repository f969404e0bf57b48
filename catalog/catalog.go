// Package catalog holds the command tree an engine dispatches against:
// a core command list plus a dictionary of loaded extension modules, each
// contributing its own commands and named constant maps.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/undefo/AdaptixC2/argspec"
	"github.com/undefo/AdaptixC2/core"
)

// Body is the mutually exclusive shape a Command takes: either a leaf with
// its own argument list, or a group of two-level-deep subcommands. Modeling
// this as a sum type (rather than a record carrying both an Args slice and
// a Subcommands slice, either of which might be populated) makes "a command
// is one or the other" an invariant the type system enforces.
type Body interface {
	isBody()
}

// Leaf is a dispatchable command with its own arguments.
type Leaf struct {
	Args []argspec.Argument
}

func (Leaf) isBody() {}

// Group is a command whose children carry the arguments; Group commands
// are never themselves dispatched, only their Subcommands are.
type Group struct {
	Subcommands []Command
}

func (Group) isBody() {}

// Command is one node of the catalog: a core command, an extension
// command, or a subcommand (always a Leaf).
type Command struct {
	Name        string
	Message     string
	Description string
	Example     string
	Exec        string
	Body        Body
}

// IsGroup reports whether the command dispatches through subcommands.
func (c Command) IsGroup() bool {
	_, ok := c.Body.(Group)
	return ok
}

// Args returns the command's own arguments, or nil if it is a Group.
func (c Command) Args() []argspec.Argument {
	if leaf, ok := c.Body.(Leaf); ok {
		return leaf.Args
	}
	return nil
}

// Subcommands returns the command's children, or nil if it is a Leaf.
func (c Command) Subcommands() []Command {
	if group, ok := c.Body.(Group); ok {
		return group.Subcommands
	}
	return nil
}

// Constant is a named key-to-value mapping consulted by $MAP.
type Constant struct {
	Name string
	Map  map[string]string
}

// ExtModule is an operator-loaded extension package, keyed by FilePath.
type ExtModule struct {
	Name      string
	FilePath  string
	Commands  []Command
	Constants map[string]Constant
}

// AgentData is the metadata $ARCH() and similar template tokens read from.
// Only Arch is consumed by this engine's template passes (§4.6); ID and
// Hostname mirror the richer struct the original source's callers pass
// through, kept here so a caller never has to shadow AgentData with its
// own wider type just to carry an agent's identity alongside its arch.
type AgentData struct {
	Arch     string
	ID       uuid.UUID
	Hostname string
}

// CommanderResult is the outcome of dispatching one input line.
type CommanderResult struct {
	Handled bool
	Message string
	Error   bool
}

// rawCommand mirrors the catalog JSON wire shape.
type rawCommand struct {
	Command     string       `json:"command"`
	Name        string       `json:"name"`
	Message     string       `json:"message"`
	Description string       `json:"description"`
	Example     string       `json:"example"`
	Exec        string       `json:"exec"`
	Subcommands []rawCommand `json:"subcommands"`
	Args        []string     `json:"args"`
}

type rawConstant struct {
	Name string            `json:"name"`
	Map  map[string]string `json:"map"`
}

// Commander owns the catalog: the core command list and the extension
// dictionary. It serializes mutation (AddRegCommands / AddExtModule /
// RemoveExtModule) against concurrent readers; the wire spec this engine
// implements leaves locking to the caller, but every Commander built by
// this package is safe to mutate and dispatch against from different
// goroutines without that extra care.
type Commander struct {
	mu         sync.RWMutex
	commands   []Command
	extModules map[string]ExtModule
	extOrder   []string
	lastError  string
	logger     *core.Logger
}

// New returns an empty Commander. logger may be nil.
func New(logger *core.Logger) *Commander {
	if logger != nil {
		logger = logger.WithComponent("catalog")
	}
	return &Commander{
		extModules: make(map[string]ExtModule),
		logger:     logger,
	}
}

// LastError mirrors the original source's Commander::GetError(): the most
// recent argument-parse failure recorded while loading a catalog.
func (c *Commander) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Commands returns the core command list.
func (c *Commander) Commands() []Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Command, len(c.commands))
	copy(out, c.commands)
	return out
}

// ExtModules returns the extension dictionary, keyed by file path.
func (c *Commander) ExtModules() map[string]ExtModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]ExtModule, len(c.extModules))
	for k, v := range c.extModules {
		out[k] = v
	}
	return out
}

// ExtModulesOrdered returns extension modules in insertion order, the order
// the dispatcher must search them in.
func (c *Commander) ExtModulesOrdered() []ExtModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ExtModule, 0, len(c.extOrder))
	for _, path := range c.extOrder {
		if mod, ok := c.extModules[path]; ok {
			out = append(out, mod)
		}
	}
	return out
}

// AddRegCommands replaces the entire core command list atomically.
func (c *Commander) AddRegCommands(jsonData []byte) error {
	var raws []rawCommand
	if err := json.Unmarshal(jsonData, &raws); err != nil {
		return fmt.Errorf("parse core commands: %w", err)
	}

	commands := make([]Command, 0, len(raws))
	for _, raw := range raws {
		commands = append(commands, c.parseCommand(raw))
	}

	c.mu.Lock()
	c.commands = commands
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("loaded %d core commands", len(commands))
	}
	return nil
}

// AddExtModule inserts or replaces the extension keyed by filePath.
func (c *Commander) AddExtModule(filePath, extName string, extCommands []json.RawMessage, extConstants []json.RawMessage) error {
	commands := make([]Command, 0, len(extCommands))
	for _, raw := range extCommands {
		var rc rawCommand
		if err := json.Unmarshal(raw, &rc); err != nil {
			return fmt.Errorf("parse extension command: %w", err)
		}
		commands = append(commands, c.parseCommand(rc))
	}

	constants := make(map[string]Constant, len(extConstants))
	for _, raw := range extConstants {
		var rcon rawConstant
		if err := json.Unmarshal(raw, &rcon); err != nil {
			return fmt.Errorf("parse extension constant: %w", err)
		}
		constant := Constant{Name: rcon.Name, Map: rcon.Map}
		if constant.Map == nil {
			constant.Map = map[string]string{}
		}
		constants[constant.Name] = constant
	}

	mod := ExtModule{Name: extName, FilePath: filePath, Commands: commands, Constants: constants}

	c.mu.Lock()
	if _, exists := c.extModules[filePath]; !exists {
		c.extOrder = append(c.extOrder, filePath)
	}
	c.extModules[filePath] = mod
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("loaded extension %q (%s): %d commands", extName, filePath, len(commands))
	}
	return nil
}

// RemoveExtModule removes the extension keyed by filePath.
func (c *Commander) RemoveExtModule(filePath string) {
	c.mu.Lock()
	delete(c.extModules, filePath)
	for i, path := range c.extOrder {
		if path == filePath {
			c.extOrder = append(c.extOrder[:i], c.extOrder[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("removed extension %s", filePath)
	}
}

// LoadExtModuleFile reads an extension bundle off disk and registers it.
// The file is a JSON object: { "name", "commands": [...], "constants": [...] }.
func (c *Commander) LoadExtModuleFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read extension file: %w", err)
	}

	var bundle struct {
		Name      string            `json:"name"`
		Commands  []json.RawMessage `json:"commands"`
		Constants []json.RawMessage `json:"constants"`
	}
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("parse extension file: %w", err)
	}

	return c.AddExtModule(path, bundle.Name, bundle.Commands, bundle.Constants)
}

// parseCommand builds a Command from the wire shape. A subcommands array,
// when present, wins outright: the parent's args field (ignored per the
// wire spec) is never consulted.
func (c *Commander) parseCommand(raw rawCommand) Command {
	name := raw.Command
	if name == "" {
		name = raw.Name
	}

	cmd := Command{
		Name:        name,
		Message:     raw.Message,
		Description: raw.Description,
		Example:     raw.Example,
		Exec:        raw.Exec,
	}

	if len(raw.Subcommands) > 0 {
		subs := make([]Command, 0, len(raw.Subcommands))
		for _, sub := range raw.Subcommands {
			subs = append(subs, c.parseLeaf(sub))
		}
		cmd.Body = Group{Subcommands: subs}
		return cmd
	}

	cmd.Body = c.parseLeafArgs(raw.Args)
	return cmd
}

func (c *Commander) parseLeaf(raw rawCommand) Command {
	name := raw.Command
	if name == "" {
		name = raw.Name
	}
	return Command{
		Name:        name,
		Message:     raw.Message,
		Description: raw.Description,
		Example:     raw.Example,
		Exec:        raw.Exec,
		Body:        c.parseLeafArgs(raw.Args),
	}
}

func (c *Commander) parseLeafArgs(specs []string) Leaf {
	args := make([]argspec.Argument, 0, len(specs))
	for _, spec := range specs {
		arg, errStr := argspec.Parse(spec)
		if !arg.Valid {
			c.mu.Lock()
			c.lastError = errStr
			c.mu.Unlock()
			continue
		}
		args = append(args, arg)
	}
	return Leaf{Args: args}
}

// CommandLines lists every dispatchable "cmd" / "cmd sub" line in the
// catalog, followed by the matching "help cmd" / "help cmd sub" lines.
// Tab-completion consumes this directly.
func (c *Commander) CommandLines() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var commandList, helpList []string
	collect := func(cmd Command) {
		helpList = append(helpList, "help "+cmd.Name)
		if !cmd.IsGroup() {
			commandList = append(commandList, cmd.Name)
		}
		for _, sub := range cmd.Subcommands() {
			commandList = append(commandList, cmd.Name+" "+sub.Name)
			helpList = append(helpList, "help "+cmd.Name+" "+sub.Name)
		}
	}

	for _, cmd := range c.commands {
		collect(cmd)
	}
	for _, path := range c.extOrder {
		for _, cmd := range c.extModules[path].Commands {
			collect(cmd)
		}
	}

	return append(commandList, helpList...)
}
