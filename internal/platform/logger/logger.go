// Package logger owns the process root zerolog logger and the request fields
// handlers attach to it
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"postfilter/internal/platform/config/raw"
)

// Logger is the logging type every package passes around
type Logger = zerolog.Logger

// Options shapes the root logger; FromEnv fills it from LOG_*
type Options struct {
	Level        string
	Format       string // console or json
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_COMPONENT, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "debug")),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	initOnce sync.Once
	root     atomic.Pointer[zerolog.Logger]
)

// Init installs the root logger; only the first call has any effect
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, initializing it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

func build(opt Options) zerolog.Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	with := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		with = with.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		with = with.Str("service", opt.Service)
	}
	if opt.Component != "" {
		with = with.Str("component", opt.Component)
	}
	for k, v := range opt.StaticFields {
		with = with.Str(k, v)
	}
	if opt.WithCaller {
		with = with.Caller()
	}

	l := with.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// parseLevel accepts zerolog level names plus "warning"; anything else is debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type request struct{ id, owner string }

type requestKey struct{}

// WithRequest records the request id and preset owner on ctx; empty values are kept from a parent
func WithRequest(ctx context.Context, reqID, owner string) context.Context {
	prev, _ := ctx.Value(requestKey{}).(request)
	next := prev
	if reqID != "" {
		next.id = reqID
	}
	if owner != "" {
		next.owner = owner
	}
	if next == prev {
		return ctx
	}
	return context.WithValue(ctx, requestKey{}, next)
}

// C returns the root logger with the request fields found on ctx
func C(ctx context.Context) *Logger {
	req, _ := ctx.Value(requestKey{}).(request)
	if req == (request{}) {
		return Get()
	}
	with := Get().With()
	if req.id != "" {
		with = with.Str("request_id", req.id)
	}
	if req.owner != "" {
		with = with.Str("owner", req.owner)
	}
	l := with.Logger()
	return &l
}

// Named returns a child of the root logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
