// Package argspec parses the compact argument-spec DSL used by the command
// catalog: TYPE (<mark name>|<name>|[flag]) (default) {description}.
package argspec

import (
	"regexp"
	"strings"
)

// Argument is one formal parameter of a command.
type Argument struct {
	Type         string
	Name         string
	Mark         string
	Flag         bool
	Required     bool
	DefaultValue string
	DefaultUsed  bool
	Description  string
	Valid        bool
}

var specRe = regexp.MustCompile(`(\w+)\s+([\[\<][^\s\]]+[\s\w-]*[\>\]])(\s*\([^\)]*\))?(?:\s+\{([\s\S]+)\})?`)

// ErrNotParsed and ErrBadBrackets mirror the two distinct parse failures
// the original grammar distinguishes.
const (
	ErrNotParsed   = "arguments not parsed"
	ErrBadBrackets = "argument must be in <> or []"
)

// Parse parses one DSL line into an Argument. On failure it returns a zero
// Argument with Valid=false and the error string the catalog loader should
// record as its last error.
func Parse(spec string) (Argument, string) {
	match := specRe.FindStringSubmatch(spec)
	if match == nil {
		return Argument{}, ErrNotParsed
	}

	arg := Argument{Type: match[1]}

	flagAndValue := strings.TrimSpace(match[2])
	defaultGroup := strings.TrimSpace(match[3])
	arg.Description = strings.TrimSpace(match[4])

	if defaultGroup != "" {
		arg.DefaultUsed = true
		arg.DefaultValue = strings.TrimSpace(defaultGroup[1 : len(defaultGroup)-1])
	}

	switch {
	case strings.HasPrefix(flagAndValue, "<") && strings.HasSuffix(flagAndValue, ">"):
		arg.Required = true
	case strings.HasPrefix(flagAndValue, "[") && strings.HasSuffix(flagAndValue, "]"):
		arg.Required = false
	default:
		return Argument{}, ErrBadBrackets
	}

	inner := flagAndValue[1 : len(flagAndValue)-1]
	if idx := strings.IndexByte(inner, ' '); idx != -1 {
		arg.Mark = strings.TrimSpace(inner[:idx])
		arg.Name = strings.TrimSpace(inner[idx+1:])
		arg.Flag = true
	} else {
		value := strings.TrimSpace(inner)
		if strings.HasPrefix(value, "-") || strings.HasPrefix(value, "/") {
			arg.Mark = value
			arg.Flag = true
		} else {
			arg.Name = value
		}
	}

	arg.Valid = true
	return arg, ""
}
