// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/helixdb/driverconf/slogfield"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
)

// resolution is the output of one resolution pass. It is immutable:
// a reload produces a whole new resolution and swaps it in atomically.
type resolution struct {
	generation  uint64
	entries     flatStore
	paths       []string
	profiles    map[string]*profile
	names       []string
	fingerprint ComparisonKey
}

// Loader owns the process wide state of one resolved configuration:
// the current generation counter and the most recent merged tree. It
// re-runs the resolution pipeline on demand and swaps the live
// generation atomically, so concurrent readers always observe either
// the old or the new generation in full.
//
// Multiple independent Loaders may coexist in the same process.
type Loader struct {
	sources   []Source
	overrides flatStore

	current atomic.Pointer[resolution]
	group   singleflight.Group

	log           *slog.Logger
	onReloadError func(error)
}

// LoaderOption configures a [Loader] at build time.
type LoaderOption func(*Loader)

// LogHandler sets the slog.Handler the loader logs resolution passes
// and background reload failures to. Defaults to a no-op handler.
func LogHandler(h slog.Handler) LoaderOption {
	return func(l *Loader) {
		l.log = slog.New(h)
	}
}

// OnReloadError registers an observer for reload failures which occur
// in the background, e.g. while watching config files. Explicit
// [Loader.Reload] calls report their failure to the caller instead.
func OnReloadError(f func(error)) LoaderOption {
	return func(l *Loader) {
		l.onReloadError = f
	}
}

func newLoader(sources []Source, overrides flatStore, opts ...LoaderOption) *Loader {
	l := &Loader{
		sources:   sources,
		overrides: overrides,
		log:       slog.New(noopLogHandler{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// InitialConfig resolves the configuration if it hasn't been resolved
// yet and returns the consumer surface over it. The returned [Config]
// is live: it always reads from the loader's current generation.
func (l *Loader) InitialConfig(ctx context.Context) (Config, error) {
	if l.current.Load() == nil {
		err := l.resolve(ctx)
		if err != nil {
			return nil, err
		}
	}
	return liveConfig{loader: l}, nil
}

// Reload re-runs the resolution pipeline and swaps the live
// generation. If a reload is already in flight the call is coalesced
// into it; two resolution passes never run concurrently against the
// same sources.
//
// On failure the previous generation stays live and keeps serving
// readers; the error is returned to the caller.
func (l *Loader) Reload(ctx context.Context) error {
	return l.resolve(ctx)
}

func (l *Loader) resolve(ctx context.Context) error {
	_, err, _ := l.group.Do("resolve", func() (any, error) {
		return nil, l.doResolve(ctx)
	})
	return err
}

func (l *Loader) doResolve(ctx context.Context) error {
	spanCtx, span := otel.Tracer("driverconf").Start(ctx, "Loader.resolve")
	defer span.End()

	layers := make([]flatStore, 0, len(l.sources)+1)
	for _, src := range l.sources {
		layer := make(flatStore)
		err := src.Apply(layer)
		if err != nil {
			return SourceError{Cause: err}
		}
		layers = append(layers, layer)
	}
	layers = append(layers, l.overrides)
	entries := mergeLayers(layers...)

	prev := l.current.Load()
	var generation uint64 = 1
	if prev != nil {
		generation = prev.generation + 1
	}

	res, err := newResolution(generation, entries, l)
	if err != nil {
		return err
	}
	if prev != nil && prev.fingerprint == res.fingerprint {
		l.log.DebugContext(spanCtx, "configuration unchanged, keeping generation",
			slogfield.Uint64("generation", prev.generation))
		return nil
	}

	l.current.Store(res)
	l.log.InfoContext(spanCtx, "configuration resolved",
		slogfield.Uint64("generation", res.generation),
		slogfield.Strings("profiles", res.names))
	return nil
}

func (l *Loader) reportReloadError(err error) {
	l.log.Error("background reload failed", slogfield.Error(err))
	if l.onReloadError != nil {
		l.onReloadError(err)
	}
}

// newResolution splits the merged tree into per profile snapshots:
// every profile inherits the default scope and overlays its own
// "profiles.<name>." scope path by path.
func newResolution(generation uint64, entries flatStore, l *Loader) (*resolution, error) {
	const scope = "profiles."

	base := make(flatStore)
	scoped := make(map[string]flatStore)
	for path, v := range entries {
		if !strings.HasPrefix(path, scope) {
			base[path] = v
			continue
		}
		rest := path[len(scope):]
		name, rel, ok := strings.Cut(rest, ".")
		if !ok || name == "" || rel == "" {
			// A bare "profiles.<name>" leaf has no option path under it.
			continue
		}
		if name == DefaultProfileName {
			return nil, ReservedProfileNameError{Name: DefaultProfileName}
		}
		m, ok := scoped[name]
		if !ok {
			m = make(flatStore)
			scoped[name] = m
		}
		m[rel] = v
	}

	paths := sortedPaths(entries)
	profiles := make(map[string]*profile, len(scoped)+1)
	profiles[DefaultProfileName] = newProfile(DefaultProfileName, generation, base, l)
	for name, overrides := range scoped {
		eff := make(flatStore, len(base)+len(overrides))
		for path, v := range base {
			eff[path] = v
		}
		for path, v := range overrides {
			eff[path] = v
		}
		profiles[name] = newProfile(name, generation, eff, l)
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	return &resolution{
		generation:  generation,
		entries:     entries,
		paths:       paths,
		profiles:    profiles,
		names:       names,
		fingerprint: comparisonKey(entries, paths, ""),
	}, nil
}

// liveConfig reads every profile lookup from the loader's current
// generation.
type liveConfig struct {
	loader *Loader
}

var _ Config = liveConfig{}

// DefaultProfile implements the [Config] interface.
func (c liveConfig) DefaultProfile() Profile {
	return c.loader.current.Load().profiles[DefaultProfileName]
}

// Profile implements the [Config] interface.
func (c liveConfig) Profile(name string) (Profile, error) {
	p, ok := c.loader.current.Load().profiles[name]
	if !ok {
		return nil, UnknownProfileError{Name: name}
	}
	return p, nil
}

// ProfileNames implements the [Config] interface.
func (c liveConfig) ProfileNames() []string {
	names := c.loader.current.Load().names
	out := make([]string, len(names))
	copy(out, names)
	return out
}

type noopLogHandler struct{}

func (noopLogHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (noopLogHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h noopLogHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h noopLogHandler) WithGroup(_ string) slog.Handler             { return h }
