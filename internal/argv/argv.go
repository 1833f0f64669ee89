// Package argv splits raw command-line tokens into positional arguments and
// flags.
package argv

import "strings"

// invocationTokens is the number of leading argv entries that name the
// interpreter and the program rather than user input.
const invocationTokens = 2

// valueFlags take their value from the following token when written without "=".
var valueFlags = map[string]bool{
	"-p": true,
}

// Args is the result of classifying command-line tokens
type Args struct {
	// Args holds the non-flag tokens in input order. Args[0] is the command name.
	Args []string
	// Flags holds the raw flag tokens in input order.
	Flags []string
}

// ParseArgv parses a full argument vector, dropping the interpreter and
// program tokens first.
func ParseArgv(argv []string) Args {
	if len(argv) <= invocationTokens {
		return Parse(nil)
	}
	return Parse(argv[invocationTokens:])
}

// Parse classifies tokens as flags or positional arguments. Every token
// starting with "-" is a flag. A value flag such as "-p" also claims the next
// token, which is recorded in Flags right after it.
func Parse(tokens []string) Args {
	parsed := Args{
		Args:  []string{},
		Flags: []string{},
	}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !IsFlag(token) {
			parsed.Args = append(parsed.Args, token)
			continue
		}

		parsed.Flags = append(parsed.Flags, token)
		if valueFlags[token] && i+1 < len(tokens) {
			i++
			parsed.Flags = append(parsed.Flags, tokens[i])
		}
	}

	return parsed
}

// IsFlag reports whether a token is a flag
func IsFlag(token string) bool {
	return strings.HasPrefix(token, "-")
}

// Command returns the command name, or "" when no positional argument was given.
func (a Args) Command() string {
	if len(a.Args) == 0 {
		return ""
	}
	return a.Args[0]
}

// Operands returns the positional arguments after the command name.
func (a Args) Operands() []string {
	if len(a.Args) < 2 {
		return nil
	}
	return a.Args[1:]
}

// ParsedFlags derives the flag name to value mapping from the raw flags.
func (a Args) ParsedFlags() Flags {
	return ParseFlags(a.Flags)
}
