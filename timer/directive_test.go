package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirective(t *testing.T) {
	cases := []struct {
		in   any
		want Directive
	}{
		{"start", Start},
		{"stop", Stop},
		{"Start", Unknown},
		{" stop", Unknown},
		{"", Unknown},
		{nil, Unknown},
		{1, Unknown},
		{map[string]any{"time": "1.00"}, Unknown},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ParseDirective(c.in), "%#v", c.in)
	}
}

func TestDirective_String(t *testing.T) {
	assert.Equal(t, "start", Start.String())
	assert.Equal(t, "stop", Stop.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "unknown<7>", Directive(7).String())
}
