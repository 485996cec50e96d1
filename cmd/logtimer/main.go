package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"logtimer/config"
	"logtimer/log"
	"logtimer/metrics"
	"logtimer/replay"
	"logtimer/timer"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	configPath = flag.StringP("config", "c", "logtimer.toml", "path to config file")
	inputPath  = flag.StringP("input", "i", "-", "JSON lines input, - for stdin")
	rewrite    = flag.Bool("rewrite", false, "write processed records as JSON lines to stdout instead of logging them")
	dump       = flag.Bool("dump", false, "log all timers on exit")
	debug      = flag.Bool("debug", false, "enable debug output")
	help       = flag.BoolP("help", "h", false, "Print help message")
)

var buildDate string

var conf config.Config

func init() {
	flag.Parse()
	if *help {
		fmt.Println(flag.CommandLine.FlagUsages())
		os.Exit(0)
	}
}

func getInitLogger() context.Context {
	var err error
	var logger *zap.Logger

	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		fmt.Printf("Failed creating logger: %e\n", err)
		os.Exit(1)
	}

	return log.WithLogger(context.Background(), logger)
}

func loadConfig(ctx context.Context) {
	var err error
	conf, err = config.Load(*configPath)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !flag.CommandLine.Changed("config"):
		log.S(ctx).Debugw("no config file, using defaults", "path", *configPath)
	default:
		log.S(ctx).Fatalw("failed loading config", "path", *configPath, zap.Error(err))
	}
}

func openInput(ctx context.Context) io.ReadCloser {
	if *inputPath == "-" {
		return io.NopCloser(os.Stdin)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.S(ctx).Fatalw("cannot open input", "path", *inputPath, zap.Error(err))
	}
	return f
}

func serveMetrics(ctx context.Context, reg *timer.Registry) {
	if conf.Metrics.Listen == "" {
		return
	}

	path := conf.Metrics.Path
	if path == "" {
		path = "/metrics"
	}

	handler, err := metrics.Handler(reg)
	if err != nil {
		log.S(ctx).Fatalw("cannot register metrics", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := &http.Server{Addr: conf.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.S(ctx).Infow("serving metrics", "listen", conf.Metrics.Listen, "path", path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.S(ctx).Errorw("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
}

func dumpPeriodically(ctx context.Context, reg *timer.Registry) {
	if conf.Service.DumpInterval <= 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(conf.Service.DumpInterval))
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.L(ctx).Info("timers", log.Timers("timers", reg.Snapshot(), reg.Precision()))
			}
		}
	}()
}

func main() {
	ctx := getInitLogger()

	if buildDate != "" {
		log.S(ctx).Infow("logtimer starting", "variant", "release", "build_date", buildDate)
	} else {
		log.S(ctx).Debugw("logtimer starting", "variant", "debug")
	}

	loadConfig(ctx)

	reg := timer.NewRegistry(timer.WithPrecision(conf.TimerPrecision()))

	logger, err := log.Build(conf.Log, *debug, conf.Service.Name, reg)
	if err != nil {
		log.S(ctx).Fatalw("cannot build real logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(log.WithLogger(context.Background(), logger), os.Interrupt)
	defer stop()

	serveMetrics(ctx, reg)
	dumpPeriodically(ctx, reg)

	in := openInput(ctx)
	defer in.Close()

	took := log.Elapsed("took", timer.SystemClock)

	var stats replay.Stats
	if *rewrite {
		stats, err = replay.Rewrite(ctx, in, os.Stdout, reg)
	} else {
		stats, err = replay.Run(ctx, in, logger)
	}

	if *dump {
		log.L(ctx).Info("timers", log.Timers("timers", reg.Snapshot(), reg.Precision()))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.S(ctx).Errorw("replay failed", zap.Error(err), took)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}

	log.S(ctx).Debugw("replay done", "lines", stats.Lines, "processed", stats.Processed, "skipped", stats.Skipped, took)
}
