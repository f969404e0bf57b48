// Package cliui provides the small set of terminal-output helpers
// commanderctl uses to present dispatch results: a startup banner, a
// section heading, user-facing error formatting, and light JSON syntax
// highlighting. All of it respects NO_COLOR and TERM=dumb.
//
// Default path: stdlib only.
package cliui

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	// C is the package's color helper instance.
	C = &Colors{}

	enabled     bool
	enabledMu   sync.Mutex
	enabledInit bool
)

// Colors provides ANSI color codes with graceful fallbacks.
type Colors struct{}

func (c *Colors) Bold(s string) string  { return colorize(s, "\033[1m", "\033[0m") }
func (c *Colors) Dim(s string) string   { return colorize(s, "\033[2m", "\033[0m") }
func (c *Colors) Green(s string) string { return colorize(s, "\033[32m", "\033[0m") }
func (c *Colors) Red(s string) string   { return colorize(s, "\033[31m", "\033[0m") }
func (c *Colors) Cyan(s string) string  { return colorize(s, "\033[36m", "\033[0m") }

func colorize(s, code, reset string) string {
	if !isEnabled() {
		return s
	}
	return code + s + reset
}

func isEnabled() bool {
	enabledMu.Lock()
	defer enabledMu.Unlock()

	if !enabledInit {
		switch {
		case os.Getenv("NO_COLOR") != "":
			enabled = false
		case os.Getenv("ADAPTIX_PRETTY") == "1":
			enabled = true
		case os.Getenv("TERM") == "dumb":
			enabled = false
		default:
			enabled = DetectTTY(os.Stdout)
		}
		enabledInit = true
	}
	return enabled
}

// DetectTTY reports whether f is a terminal.
func DetectTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	return err == nil && (info.Mode()&os.ModeCharDevice) != 0
}

// EnableColors forces colors on regardless of environment detection.
func EnableColors() {
	enabledMu.Lock()
	defer enabledMu.Unlock()
	enabled = true
	enabledInit = true
}

// DisableColors forces colors off regardless of environment detection.
func DisableColors() {
	enabledMu.Lock()
	defer enabledMu.Unlock()
	enabled = false
	enabledInit = true
}

// Ellipsize truncates s to maxLen runes, appending "..." when truncated.
func Ellipsize(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	return string(runes[:maxLen-3]) + "..."
}

// Banner prints a boxed app name/version line at shell startup, suppressed
// by ADAPTIX_NO_BANNER or when stdout isn't a terminal.
func Banner(app, version string) {
	if !shouldShowBanner() {
		return
	}

	appDisplay := app
	if utf8.RuneCountInString(app) > 35 {
		appDisplay = Ellipsize(app, 35)
	}
	versionDisplay := fmt.Sprintf("v%s", version)
	if utf8.RuneCountInString(versionDisplay) > 35 {
		versionDisplay = Ellipsize(versionDisplay, 35)
	}

	fmt.Printf(`
    ╔════════════════════════════════════════╗
    ║     %-35s ║
    ║     %-35s ║
    ║   AUTHORIZED USE ONLY                 ║
    ╚════════════════════════════════════════╝
`, appDisplay, versionDisplay)
}

func shouldShowBanner() bool {
	if os.Getenv("ADAPTIX_NO_BANNER") != "" {
		return false
	}
	return DetectTTY(os.Stdout)
}

// H1 prints a bold, underlined section heading.
func H1(s string) {
	fmt.Println()
	fmt.Println(C.Bold(C.Cyan(s)))
	fmt.Println(strings.Repeat("─", utf8.RuneCountInString(s)))
}

// UserError pairs an operator-facing cause with an optional next-step hint.
type UserError struct {
	Cause    string
	NextHint string
}

func (e *UserError) Error() string {
	if e.NextHint != "" {
		return fmt.Sprintf("%s\n  → %s", e.Cause, e.NextHint)
	}
	return e.Cause
}

// NewUserError builds a UserError.
func NewUserError(cause, nextHint string) error {
	return &UserError{Cause: cause, NextHint: nextHint}
}

// PrintError writes err to stderr in the engine's "✗ message" form.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", C.Red("✗"), err.Error())
}

var jsonKeyPattern = regexp.MustCompile(`"([^"]+)":\s*`)

// PrintJSONSyntax prints a dispatch result's JSON payload with its keys
// dimmed, so they read distinctly from the values a command produced.
func PrintJSONSyntax(data string) {
	for _, line := range strings.Split(data, "\n") {
		highlighted := jsonKeyPattern.ReplaceAllStringFunc(line, func(match string) string {
			key := jsonKeyPattern.FindStringSubmatch(match)[1]
			return C.Dim(`"`+key+`":`) + " "
		})
		fmt.Println(highlighted)
	}
}
