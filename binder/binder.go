// Package binder matches a token list against a command's declared
// arguments, producing a name-to-value payload and a rendered message.
package binder

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/undefo/AdaptixC2/argspec"
)

// Result is what a successful Bind produces.
type Result struct {
	// Payload carries the typed, JSON-ready values keyed by argument name
	// (or mark, for BOOL arguments).
	Payload map[string]interface{}
	// Raw carries the unconverted string each slot was bound to, keyed the
	// same way Payload is. Message interpolation and exec-string expansion
	// both need the raw form.
	Raw map[string]string
	// Message is the command's message template with every <key>
	// replaced by its raw bound value.
	Message string
}

// Bind runs the wide-argument binding algorithm over tokens against
// arguments, then coerces each bound (or defaulted) value by type.
// messageTemplate is the command's own message field; subcommand controls
// which wording a missing-required-argument error uses.
func Bind(tokens []string, arguments []argspec.Argument, messageTemplate string, subcommand bool) (Result, error) {
	parsed := bindTokens(tokens, arguments)

	payload := make(map[string]interface{})

	for _, arg := range arguments {
		raw, present := lookupRaw(parsed, arg)

		if present {
			value, err := coerce(arg, raw)
			if err != nil {
				return Result{}, err
			}
			setPayload(payload, arg, value)
			continue
		}

		if !arg.Required {
			continue
		}

		if arg.DefaultValue == "" && !arg.DefaultUsed {
			if subcommand {
				return Result{}, fmt.Errorf("Missing required argument for subcommand: %s", arg.Name)
			}
			return Result{}, fmt.Errorf("Missing required argument: %s", arg.Name)
		}

		value, err := coerce(arg, arg.DefaultValue)
		if err != nil {
			return Result{}, err
		}
		setPayload(payload, arg, value)
	}

	message := renderMessage(messageTemplate, parsed)

	return Result{Payload: payload, Raw: parsed, Message: message}, nil
}

// bindTokens implements the three-rule match plus wide-argument absorption
// described by the engine's binding algorithm.
func bindTokens(tokens []string, arguments []argspec.Argument) map[string]string {
	parsed := make(map[string]string)
	wideKey := ""

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		matched := false

		for _, arg := range arguments {
			if arg.Flag {
				if arg.Type == "BOOL" && arg.Mark == token {
					parsed[arg.Mark] = "true"
					wideKey = arg.Mark
					matched = true
					break
				}
				if arg.Mark == token && i+1 < len(tokens) {
					i++
					parsed[arg.Name] = tokens[i]
					wideKey = arg.Name
					matched = true
					break
				}
				continue
			}
			if _, already := parsed[arg.Name]; !already {
				parsed[arg.Name] = token
				wideKey = arg.Name
				matched = true
				break
			}
		}

		if !matched {
			var wide strings.Builder
			for j := i; j < len(tokens); j++ {
				wide.WriteByte(' ')
				wide.WriteString(tokens[j])
			}
			parsed[wideKey] += wide.String()
			break
		}
	}

	return parsed
}

func lookupRaw(parsed map[string]string, arg argspec.Argument) (string, bool) {
	if arg.Flag && arg.Type == "BOOL" {
		v, ok := parsed[arg.Mark]
		return v, ok
	}
	v, ok := parsed[arg.Name]
	if ok {
		return v, true
	}
	v, ok = parsed[arg.Mark]
	return v, ok
}

func setPayload(payload map[string]interface{}, arg argspec.Argument, value interface{}) {
	key := arg.Name
	if arg.Flag && arg.Type == "BOOL" {
		key = arg.Mark
	}
	payload[key] = value
}

func coerce(arg argspec.Argument, raw string) (interface{}, error) {
	switch arg.Type {
	case "STRING":
		return raw, nil
	case "INT":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, nil
		}
		return n, nil
	case "BOOL":
		return raw == "true", nil
	case "FILE":
		return readFileBase64(raw)
	default:
		return raw, nil
	}
}

func readFileBase64(path string) (string, error) {
	resolved := path
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			resolved = filepath.Join(home, path[2:])
		}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("Failed to open file: %s", path)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func renderMessage(template string, parsed map[string]string) string {
	if template == "" {
		return ""
	}
	msg := template
	for key, value := range parsed {
		placeholder := "<" + key + ">"
		if strings.Contains(msg, placeholder) {
			msg = strings.ReplaceAll(msg, placeholder, value)
		}
	}
	return msg
}
