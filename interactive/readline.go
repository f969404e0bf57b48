package interactive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// ReadlineInput wraps chzyer/readline for history and tab completion
// driven by a Completer.
type ReadlineInput struct {
	rl        *readline.Instance
	completer *Completer
	prompt    string
}

// NewReadlineInput builds a readline-backed input handler, returned as an
// InputReader so callers pick between it and NewFallbackInput without
// caring which concrete type they hold. historyPath, if non-empty,
// persists command history across sessions (see core.Config.HistoryPath).
func NewReadlineInput(prompt string, completer *Completer, historyPath string) (InputReader, error) {
	if historyPath != "" {
		os.MkdirAll(dirOf(historyPath), 0755)
	}

	config := &readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyPath,
		AutoComplete:      readline.NewPrefixCompleter(dynamicItems(completer)...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}

	return &ReadlineInput{rl: rl, completer: completer, prompt: prompt}, nil
}

func dirOf(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "."
	}
	return path[:idx]
}

// dynamicItems seeds readline's PrefixCompleter with every top-level
// command name known when NewReadlineInput runs. readline completes from
// this fixed list only: commands added to the catalog afterwards, and
// subcommand words, are not offered by the readline shell.
func dynamicItems(completer *Completer) []readline.PrefixCompleterInterface {
	if completer == nil {
		return nil
	}
	items := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range completer.commandNames() {
		items = append(items, readline.PcItem(name))
	}
	return items
}

// SetPrompt updates the prompt.
func (r *ReadlineInput) SetPrompt(prompt string) {
	r.prompt = prompt
	r.rl.SetPrompt(prompt)
}

// ReadLine reads one line, trimmed of surrounding whitespace.
func (r *ReadlineInput) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Close releases the underlying terminal state.
func (r *ReadlineInput) Close() error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// FallbackInput is a plain bufio-backed input handler used when readline
// can't attach to the controlling terminal (e.g. piped stdin).
type FallbackInput struct {
	scanner *bufio.Scanner
	prompt  string
}

// NewFallbackInput builds a FallbackInput reading from os.Stdin, returned
// as an InputReader for the same reason as NewReadlineInput.
func NewFallbackInput(prompt string) InputReader {
	return &FallbackInput{scanner: bufio.NewScanner(os.Stdin), prompt: prompt}
}

// ReadLine prints the prompt then reads one line from stdin.
func (f *FallbackInput) ReadLine() (string, error) {
	fmt.Print(f.prompt)
	if !f.scanner.Scan() {
		return "", io.EOF
	}
	return strings.TrimSpace(f.scanner.Text()), nil
}

// SetPrompt updates the prompt.
func (f *FallbackInput) SetPrompt(prompt string) {
	f.prompt = prompt
}

// Close does nothing for FallbackInput.
func (f *FallbackInput) Close() error {
	return nil
}
