// Package replay feeds newline-delimited JSON log records through a timer
// Registry, either by re-emitting them on a zap logger or by rewriting them
// as JSON lines.
package replay

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"logtimer/common"
	"logtimer/log"
	"logtimer/timer"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// maxLine bounds a single input line. Longer lines are skipped.
const maxLine = 1024 * 1024

var ErrLineTooLong = errors.New("line too long")

type Stats struct {
	Lines     int
	Processed int
	Skipped   int
}

// Decode parses one line into a Record. "msg" is accepted in place of
// "message", other unknown top level keys end up in Extra.
func Decode(line []byte) (*timer.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("bad json: %w", err)
	}

	rec := &timer.Record{}
	if err := common.WeakDecodeMap(raw, rec); err != nil {
		return nil, fmt.Errorf("bad record: %w", err)
	}

	if msg, ok := rec.Extra["msg"].(string); ok && rec.Message == "" {
		rec.Message = msg
		delete(rec.Extra, "msg")
	}
	if len(rec.Extra) == 0 {
		rec.Extra = nil
	}

	return rec, nil
}

// Emit writes rec on logger. Context keys become fields, so a "timer" key is
// picked up by a logger wrapped with log.NewTimerCore.
func Emit(logger *zap.Logger, rec *timer.Record) error {
	level, err := recordLevel(rec)
	if err != nil {
		return err
	}

	ce := logger.Check(level, rec.Message)
	if ce == nil {
		return nil
	}

	keys := make([]string, 0, len(rec.Context))
	for k := range rec.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, rec.Context[k]))
	}
	if len(rec.Extra) > 0 {
		fields = append(fields, zap.Any("extra", rec.Extra))
	}

	ce.Write(fields...)
	return nil
}

// Run reads records from r and emits each on logger.
func Run(ctx context.Context, r io.Reader, logger *zap.Logger) (Stats, error) {
	ctx = log.SWith(ctx, log.Stage("replay"))

	return scan(ctx, r, func(rec *timer.Record) error {
		return Emit(logger, rec)
	})
}

// Rewrite reads records from r, applies their timer directives on reg and
// writes them to w as JSON lines.
func Rewrite(ctx context.Context, r io.Reader, w io.Writer, reg *timer.Registry) (Stats, error) {
	ctx = log.SWith(ctx, log.Stage("rewrite"))
	enc := json.NewEncoder(w)

	return scan(ctx, r, func(rec *timer.Record) error {
		if err := enc.Encode(reg.Process(rec)); err != nil {
			return abort{fmt.Errorf("write record: %w", err)}
		}
		return nil
	})
}

// abort stops scanning instead of skipping the current line.
type abort struct {
	error
}

func (a abort) Unwrap() error {
	return a.error
}

func scan(ctx context.Context, r io.Reader, handle func(rec *timer.Record) error) (stats Stats, err error) {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line, tooLong, err := readLine(reader, maxLine)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.S(ctx).Errorw("read input failed", "line", stats.Lines+1, zap.Error(err))
			return stats, fmt.Errorf("read input: %w", err)
		}

		stats.Lines++
		if tooLong {
			stats.Skipped++
			log.S(ctx).Warnw("skip record", "line", stats.Lines, zap.Error(ErrLineTooLong), "limit", maxLine)
			continue
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		rec, err := Decode(line)
		if err == nil {
			err = handle(rec)
		}

		var a abort
		if errors.As(err, &a) {
			log.S(ctx).Errorw("output failed", "line", stats.Lines, zap.Error(a.error))
			return stats, a.error
		}

		if err != nil {
			stats.Skipped++
			log.S(ctx).Warnw("skip record", "line", stats.Lines, zap.Error(err), log.ByteField("raw", line))
			continue
		}

		stats.Processed++
	}

	log.S(ctx).Debugw("input done", "lines", stats.Lines, "processed", stats.Processed, "skipped", stats.Skipped)
	return stats, nil
}

// readLine returns the next line without its terminator. A line longer than
// limit is drained from r and reported as tooLong with no content.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if len(line) > 0 || tooLong {
				return line, tooLong, nil
			}
			return nil, false, err
		}

		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
				line = nil
			} else {
				// chunk is only valid until the next read
				line = append(line, chunk...)
			}
		}

		if !isPrefix {
			return line, tooLong, nil
		}
	}
}
