package console

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// dotCall matches the "<Class>.<command>(<args>)" form.
var dotCall = regexp.MustCompile(`^([A-Za-z_]\w*)\.([A-Za-z_]\w*)\((.*)\)$`)

// call is one parsed input line.
type call struct {
	command string
	args    []string
	// fields is set by the dictionary form of update.
	fields map[string]string
}

// parseLine turns an input line into a call. The second result is false for
// a line that is neither a plain command nor a dot call.
func parseLine(line string) (call, bool) {
	line = strings.TrimSpace(line)
	if m := dotCall.FindStringSubmatch(line); m != nil {
		return parseDotCall(m[1], m[2], m[3])
	}

	fields := splitArgs(line)
	if len(fields) == 0 {
		return call{}, true
	}
	return call{command: fields[0], args: fields[1:]}, true
}

// parseDotCall rewrites Class.command(args) into command Class args...
func parseDotCall(class, command, inner string) (call, bool) {
	c := call{command: command, args: []string{class}}

	inner = strings.TrimSpace(inner)
	if brace := strings.Index(inner, "{"); brace >= 0 && command == "update" {
		head := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(inner[:brace]), ","))
		if head != "" {
			c.args = append(c.args, unquote(head))
		}
		fields, err := parseDict(inner[brace:])
		if err != nil {
			return call{}, false
		}
		c.fields = fields
		return c, true
	}

	for _, arg := range splitCallArgs(inner) {
		c.args = append(c.args, unquote(arg))
	}
	return c, true
}

// splitArgs splits on whitespace, keeping double-quoted runs together and
// dropping the quotes.
func splitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}

// splitCallArgs splits a dot call's argument list on commas outside quotes.
func splitCallArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var (
		args    []string
		current strings.Builder
		quote   rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			current.WriteRune(r)
		case r == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(args, strings.TrimSpace(current.String()))
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// parseDict decodes {"name": value, ...}, accepting single-quoted keys and
// strings, and renders every value back to the raw string form used by update.
func parseDict(s string) (map[string]string, error) {
	raw, err := decodeDict(s)
	if err != nil {
		raw, err = decodeDict(strings.ReplaceAll(s, "'", `"`))
		if err != nil {
			return nil, err
		}
	}

	fields := make(map[string]string, len(raw))
	for name, v := range raw {
		switch x := v.(type) {
		case string:
			fields[name] = x
		case json.Number:
			fields[name] = x.String()
		default:
			data, err := json.Marshal(x)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", name, err)
			}
			fields[name] = string(data)
		}
	}
	return fields, nil
}

func decodeDict(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
