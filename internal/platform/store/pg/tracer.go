package pg

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"insightbff/internal/platform/logger"

	"github.com/rs/zerolog"
)

// maxArgRunes caps string args in SQL logs; translation bodies can run to pages
const maxArgRunes = 64

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives finished statements
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement through root at info (warn when slow),
// independent of the process-wide level
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", clipArgs(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds whitespace runs to a single space
func compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case '\n', '\t', '\r', ' ':
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

func clipArgs(args []any) []any {
	if len(args) == 0 {
		return args
	}
	out := make([]any, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok || utf8.RuneCountInString(s) <= maxArgRunes {
			out[i] = a
			continue
		}
		rs := []rune(s)
		out[i] = fmt.Sprintf("%s...(+%d)", string(rs[:maxArgRunes]), len(rs)-maxArgRunes)
	}
	return out
}
