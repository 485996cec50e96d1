package config

import (
	"logtimer/common"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	Service Service `toml:"service" json:"service" yaml:"service"`
	Log     Log     `toml:"log" json:"log" yaml:"log"`
	Timer   Timer   `toml:"timer" json:"timer" yaml:"timer"`
	Metrics Metrics `toml:"metrics" json:"metrics" yaml:"metrics"`
}

type Service struct {
	Name string `toml:"name" json:"name" yaml:"name"`
	// DumpInterval logs a snapshot of all timers periodically when positive.
	DumpInterval common.Duration `toml:"dump_interval" json:"dump_interval" yaml:"dump_interval"`
}

type Log struct {
	Level     *zapcore.Level `toml:"level" json:"level" yaml:"level"`
	Encoding  *string        `toml:"encoding" json:"encoding" yaml:"encoding"`
	InfoPath  *[]string      `toml:"info_path" json:"info_path" yaml:"info_path"`
	ErrorPath *[]string      `toml:"error_path" json:"error_path" yaml:"error_path"`
}

type Timer struct {
	// Precision is the number of decimals in formatted durations.
	Precision *int `toml:"precision" json:"precision" yaml:"precision"`
}

type Metrics struct {
	Listen string `toml:"listen" json:"listen" yaml:"listen"`
	Path   string `toml:"path" json:"path" yaml:"path"`
}
