package argv

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Value is the value of a single flag. A flag written without "=" is a
// boolean flag and has no string value.
type Value struct {
	Str      string
	HasValue bool
}

// Flags maps flag names, dashes stripped, to their values
type Flags map[string]Value

// ParseFlags builds Flags from raw flag tokens. The last occurrence of a
// repeated flag wins. A token that does not start with "-" is the value of the
// value flag before it.
func ParseFlags(raw []string) Flags {
	flags := make(Flags, len(raw))

	for i := 0; i < len(raw); i++ {
		token := raw[i]
		if !IsFlag(token) {
			continue
		}

		if valueFlags[token] && i+1 < len(raw) && !IsFlag(raw[i+1]) {
			flags[stripDashes(token)] = Value{Str: raw[i+1], HasValue: true}
			i++
			continue
		}

		name, value, found := strings.Cut(token, "=")
		if found {
			flags[stripDashes(name)] = Value{Str: value, HasValue: true}
		} else {
			flags[stripDashes(name)] = Value{}
		}
	}

	return flags
}

func stripDashes(s string) string {
	return strings.TrimLeft(s, "-")
}

// Has reports whether any of the given names was passed.
func (f Flags) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := f[name]; ok {
			return true
		}
	}
	return false
}

// String returns the string value of the first given name that carries one.
func (f Flags) String(names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := f[name]; ok && v.HasValue {
			return v.Str, true
		}
	}
	return "", false
}

// Int returns the integer value of the first given name that carries one.
func (f Flags) Int(names ...string) (int, bool, error) {
	s, ok := f.String(names...)
	if !ok {
		return 0, false, nil
	}
	n, err := cast.ToIntE(s)
	if err != nil {
		return 0, true, fmt.Errorf("invalid number %q for --%s", s, names[0])
	}
	return n, true, nil
}

// Numeric returns the value of a bare numeric flag such as "-5".
func (f Flags) Numeric() (int, bool) {
	for name, v := range f {
		if v.HasValue || name == "" {
			continue
		}
		if n, err := cast.ToIntE(name); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
