package timer

import "fmt"

type Directive int

const (
	Unknown Directive = iota
	Start
	Stop
)

// ParseDirective maps a directive value from a log event. Only the exact
// strings "start" and "stop" are recognized, everything else is Unknown.
func ParseDirective(v any) Directive {
	s, ok := v.(string)
	if !ok {
		return Unknown
	}

	switch s {
	case "start":
		return Start
	case "stop":
		return Stop
	default:
		return Unknown
	}
}

func (d Directive) String() string {
	switch d {
	case Unknown:
		return "unknown"
	case Start:
		return "start"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("unknown<%d>", int(d))
	}
}
