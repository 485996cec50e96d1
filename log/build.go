package log

import (
	"fmt"

	"logtimer/config"
	"logtimer/timer"

	"go.uber.org/zap"
)

// Build creates the logger described by conf. When reg is not nil, every
// entry written through the logger has its timer directives applied.
func Build(conf config.Log, debug bool, node string, reg *timer.Registry) (*zap.Logger, error) {
	var logOption zap.Config
	if debug {
		logOption = zap.NewDevelopmentConfig()
	} else {
		logOption = zap.NewProductionConfig()
	}

	if conf.Level != nil {
		logOption.Level.SetLevel(*conf.Level)
	}

	if conf.Encoding != nil {
		logOption.Encoding = *conf.Encoding
	}

	if conf.InfoPath != nil {
		logOption.OutputPaths = *conf.InfoPath
	}

	if conf.ErrorPath != nil {
		logOption.ErrorOutputPaths = *conf.ErrorPath
	}

	if node != "" {
		logOption.InitialFields = map[string]interface{}{
			"node": node,
		}
	}

	var opts []zap.Option
	if reg != nil {
		opts = append(opts, WrapTimers(reg))
	}

	logger, err := logOption.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
