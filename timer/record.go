package timer

// ContextKey is the key of the directive block inside Record.Context.
const ContextKey = "timer"

// Record is a log event as seen by the Registry. Only Context[ContextKey] is
// ever read or modified. Level is either a name or a numeric Monolog level.
type Record struct {
	Message string         `json:"message" mapstructure:"message"`
	Level   any            `json:"level,omitempty" mapstructure:"level"`
	Context map[string]any `json:"context,omitempty" mapstructure:"context"`
	Extra   map[string]any `json:"extra,omitempty" mapstructure:",remain"`
}
