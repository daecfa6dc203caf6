// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String retorna el nombre canónico del nivel.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "silent"
	}
}

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

// Format selecciona el formatter de pterm.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configura un logger.
type Options struct {
	Level  Level
	Format Format
	Writer io.Writer
}

// core es compartido entre un logger y todos sus derivados (With).
type core struct {
	mu   sync.Mutex
	lvl  Level
	base *pterm.Logger
}

type ptermLogger struct {
	c     *core
	scope []any // pares key/value fijos
}

// New crea un logger leyendo el nivel de REDRECON_LOG_LEVEL.
func New() Logger {
	return NewWithOptions(Options{
		Level:  ParseLevel(os.Getenv("REDRECON_LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("REDRECON_LOG_FORMAT")),
	})
}

// NewNop descarta todo. Pensado para tests.
func NewNop() Logger {
	return NewWithOptions(Options{Level: LevelSilent, Writer: io.Discard})
}

// NewWithOptions construye el logger sobre pterm.DefaultLogger.
func NewWithOptions(opts Options) Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	formatter := pterm.LogFormatterColorful
	if opts.Format == FormatJSON {
		formatter = pterm.LogFormatterJSON
	}

	base := pterm.DefaultLogger.
		WithWriter(opts.Writer).
		WithFormatter(formatter).
		WithTime(true).
		WithTimeFormat("15:04:05").
		WithLevel(toPterm(opts.Level))

	return &ptermLogger{c: &core{lvl: opts.Level, base: base}}
}

func (p *ptermLogger) With(kv ...any) Logger {
	scope := make([]any, 0, len(p.scope)+len(kv)+1)
	scope = append(scope, p.scope...)
	scope = append(scope, normalizeKV(kv)...)
	return &ptermLogger{c: p.c, scope: scope}
}

func (p *ptermLogger) SetLevel(lvl Level) {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	p.c.lvl = lvl
	p.c.base.Level = toPterm(lvl)
}

func (p *ptermLogger) Debug(msg string, kv ...any) { p.log(LevelDebug, msg, kv...) }
func (p *ptermLogger) Info(msg string, kv ...any)  { p.log(LevelInfo, msg, kv...) }
func (p *ptermLogger) Warn(msg string, kv ...any)  { p.log(LevelWarn, msg, kv...) }
func (p *ptermLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	kv = append([]any{"error", err.Error()}, kv...)
	p.log(LevelError, "error", kv...)
}

func (p *ptermLogger) log(l Level, msg string, kv ...any) {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	if l < p.c.lvl {
		return
	}

	fields := make([]any, 0, len(p.scope)+len(kv)+1)
	fields = append(fields, p.scope...)
	fields = append(fields, normalizeKV(kv)...)
	args := p.c.base.Args(fields...)

	switch l {
	case LevelDebug:
		p.c.base.Debug(msg, args)
	case LevelInfo:
		p.c.base.Info(msg, args)
	case LevelWarn:
		p.c.base.Warn(msg, args)
	default:
		p.c.base.Error(msg, args)
	}
}

// normalizeKV garantiza pares completos con claves string.
func normalizeKV(kv []any) []any {
	out := make([]any, 0, len(kv)+1)
	for i := 0; i < len(kv); i += 2 {
		k := fmt.Sprint(kv[i])
		var v any = "(missing)"
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out = append(out, k, v)
	}
	return out
}

func toPterm(l Level) pterm.LogLevel {
	switch l {
	case LevelDebug:
		return pterm.LogLevelDebug
	case LevelInfo:
		return pterm.LogLevelInfo
	case LevelWarn:
		return pterm.LogLevelWarn
	case LevelError:
		return pterm.LogLevelError
	default:
		return pterm.LogLevelDisabled
	}
}

// ParseLevel convierte un string de configuración en Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	case "silent", "off", "none":
		return LevelSilent
	default:
		return LevelInfo
	}
}

// ParseFormat convierte un string de configuración en Format.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
