package domain

// AutoResolve is the textual marker that text transports (CLI, HTTP, MCP)
// translate into Auto().
const AutoResolve = "<AUTO>"

// Value is what a caller supplies for a key: either an explicit string or a
// request to auto-resolve it.
type Value struct {
	text string
	auto bool
}

// Explicit wraps a caller-supplied value. The empty string is allowed and
// passes through resolution without touching the Record.
func Explicit(s string) Value {
	return Value{text: s}
}

// Auto requests lookup (input role) or allocation (output role).
func Auto() Value {
	return Value{auto: true}
}

// ParseValue maps the AutoResolve marker to Auto and anything else to Explicit.
func ParseValue(s string) Value {
	if s == AutoResolve {
		return Auto()
	}
	return Explicit(s)
}

// IsAuto reports whether the value requests auto-resolution.
func (v Value) IsAuto() bool {
	return v.auto
}

// Text returns the explicit value. It is empty for Auto.
func (v Value) Text() string {
	return v.text
}

func (v Value) String() string {
	if v.auto {
		return AutoResolve
	}
	return v.text
}
