// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	requestTimeout     = NewOption("basic.request.timeout", KindDuration)
	requestConsistency = NewOption("basic.request.consistency", KindString)
	requestPageSize    = NewOption("basic.request.page.size", KindInt)
	authCredentials    = NewOption("advanced.auth.credentials", KindStringMap)
	contactPoints      = NewOption("basic.contact.points", KindStringSlice)
)

func TestBuilder_Build(t *testing.T) {
	t.Run("will fail", func(t *testing.T) {
		t.Run("if a profile uses the reserved name", func(t *testing.T) {
			pb := NewProfileBuilder().WithString(requestConsistency, "EACH_QUORUM")

			_, err := NewBuilder().WithProfile(DefaultProfileName, pb.Build()).Build()

			var rerr ReservedProfileNameError
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, DefaultProfileName, rerr.Name)
		})

		t.Run("if a raw path targets the reserved profile scope", func(t *testing.T) {
			_, err := NewBuilder().With("profiles.default.timeout", 1).Build()

			var rerr ReservedProfileNameError
			require.ErrorAs(t, err, &rerr)
		})
	})

	t.Run("will layer overrides over sources", func(t *testing.T) {
		t.Run("if both bind the same path", func(t *testing.T) {
			src := Map{"basic": map[string]any{"request": map[string]any{
				"timeout":     100 * time.Millisecond,
				"consistency": "LOCAL_ONE",
			}}}

			loader, err := NewBuilder(src).
				WithDuration(requestTimeout, 500*time.Millisecond).
				Build()
			require.NoError(t, err)

			cfg, err := loader.InitialConfig(context.Background())
			require.NoError(t, err)

			p := cfg.DefaultProfile()
			d, err := p.GetDuration(requestTimeout)
			require.NoError(t, err)
			require.Equal(t, 500*time.Millisecond, d)

			s, err := p.GetString(requestConsistency)
			require.NoError(t, err)
			require.Equal(t, "LOCAL_ONE", s)
		})
	})

	t.Run("will order sources by ascending priority", func(t *testing.T) {
		t.Run("if two sources bind the same path", func(t *testing.T) {
			first := Map{"basic": map[string]any{"request": map[string]any{"page": map[string]any{"size": 1000}}}}
			second := Map{"basic": map[string]any{"request": map[string]any{"page": map[string]any{"size": 5000}}}}

			loader, err := NewBuilder(first, second).Build()
			require.NoError(t, err)

			cfg, err := loader.InitialConfig(context.Background())
			require.NoError(t, err)

			n, err := cfg.DefaultProfile().GetInt(requestPageSize)
			require.NoError(t, err)
			require.Equal(t, 5000, n)
		})
	})

	t.Run("will not be affected by later builder mutation", func(t *testing.T) {
		src := Map{"basic": map[string]any{"request": map[string]any{"page": map[string]any{"size": 1000}}}}
		b := NewBuilder(src)

		loader, err := b.Build()
		require.NoError(t, err)

		b.WithInt(requestPageSize, 9000)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		n, err := cfg.DefaultProfile().GetInt(requestPageSize)
		require.NoError(t, err)
		require.Equal(t, 1000, n)
	})
}

func TestBuilder_Without(t *testing.T) {
	t.Run("will suppress the source value", func(t *testing.T) {
		src := Map{"basic": map[string]any{"request": map[string]any{"timeout": 100 * time.Millisecond}}}

		loader, err := NewBuilder(src).Without(requestTimeout).Build()
		require.NoError(t, err)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		p := cfg.DefaultProfile()
		require.False(t, p.IsDefined(requestTimeout))

		_, err = p.GetDuration(requestTimeout)
		var merr MissingOptionError
		require.ErrorAs(t, err, &merr)
		require.Equal(t, requestTimeout.Path(), merr.Path)
		require.Equal(t, DefaultProfileName, merr.Profile)
	})
}

func TestBuilder_WithStringMap(t *testing.T) {
	t.Run("will replace the whole sub-tree", func(t *testing.T) {
		src := Map{"advanced": map[string]any{"auth": map[string]any{"credentials": map[string]any{
			"username": "old",
			"password": "old",
		}}}}

		loader, err := NewBuilder(src).
			WithStringMap(authCredentials, map[string]string{"token": "abc"}).
			Build()
		require.NoError(t, err)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		m, err := cfg.DefaultProfile().GetStringMap(authCredentials)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"token": "abc"}, m)
	})

	t.Run("will be fully replaced by a later scalar binding", func(t *testing.T) {
		inlineCredentials := NewOption(authCredentials.Path(), KindString)

		b := NewBuilder().
			WithStringMap(authCredentials, map[string]string{"token": "abc"}).
			WithString(inlineCredentials, "inline")

		require.Equal(t, []Entry{
			{Path: "advanced.auth.credentials", Value: "inline"},
		}, b.EntrySet())

		loader, err := b.Build()
		require.NoError(t, err)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		p := cfg.DefaultProfile()
		s, err := p.GetString(inlineCredentials)
		require.NoError(t, err)
		require.Equal(t, "inline", s)

		_, err = p.GetStringMap(authCredentials)
		var werr WrongKindError
		require.ErrorAs(t, err, &werr)
		require.Equal(t, authCredentials.Path(), werr.Path)
	})
}

func TestBuilder_WithForProfile(t *testing.T) {
	t.Run("will scope the path under the named profile", func(t *testing.T) {
		loader, err := NewBuilder().
			WithString(requestConsistency, "LOCAL_ONE").
			WithForProfile("slow", requestConsistency.Path(), "EACH_QUORUM").
			Build()
		require.NoError(t, err)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		slow, err := cfg.Profile("slow")
		require.NoError(t, err)

		s, err := slow.GetString(requestConsistency)
		require.NoError(t, err)
		require.Equal(t, "EACH_QUORUM", s)
	})
}

func TestBuilder_WithProfile(t *testing.T) {
	t.Run("will merge profile builder overrides under the profile scope", func(t *testing.T) {
		pb := NewProfileBuilder().
			WithDuration(requestTimeout, 500*time.Millisecond).
			Without(requestPageSize)

		loader, err := NewBuilder(Map{
			"basic": map[string]any{"request": map[string]any{"page": map[string]any{"size": 1000}}},
			"profiles": map[string]any{"slow": map[string]any{
				"basic": map[string]any{"request": map[string]any{"page": map[string]any{"size": 2000}}},
			}},
		}).WithProfile("slow", pb.Build()).Build()
		require.NoError(t, err)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		slow, err := cfg.Profile("slow")
		require.NoError(t, err)

		d, err := slow.GetDuration(requestTimeout)
		require.NoError(t, err)
		require.Equal(t, 500*time.Millisecond, d)

		// The unset suppresses the profile scoped source value, so the
		// profile falls back to inheriting the default scope.
		n, err := slow.GetInt(requestPageSize)
		require.NoError(t, err)
		require.Equal(t, 1000, n)
	})
}

func TestBuilder_EntrySet(t *testing.T) {
	t.Run("will enumerate entries sorted by path", func(t *testing.T) {
		b := NewBuilder().
			WithString(requestConsistency, "ONE").
			WithInt(requestPageSize, 100).
			Without(requestTimeout)

		entries := b.EntrySet()

		require.Equal(t, []Entry{
			{Path: "basic.request.consistency", Value: "ONE"},
			{Path: "basic.request.page.size", Value: int64(100)},
			{Path: "basic.request.timeout", Value: nil},
		}, entries)
	})

	t.Run("will only enumerate bindings made by the caller", func(t *testing.T) {
		t.Run("if a map binding occupies a sub-tree", func(t *testing.T) {
			b := NewBuilder().WithStringMap(authCredentials, map[string]string{
				"token":    "abc",
				"username": "helix",
			})

			require.Equal(t, []Entry{
				{Path: "advanced.auth.credentials.token", Value: "abc"},
				{Path: "advanced.auth.credentials.username", Value: "helix"},
			}, b.EntrySet())
		})
	})
}

func TestProfileBuilder_Build(t *testing.T) {
	t.Run("will freeze the accumulated overrides", func(t *testing.T) {
		pb := NewProfileBuilder().WithString(requestConsistency, "ONE")
		frozen := pb.Build()

		pb.WithString(requestConsistency, "TWO")

		loader, err := NewBuilder().WithProfile("p", frozen).Build()
		require.NoError(t, err)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		p, err := cfg.Profile("p")
		require.NoError(t, err)

		s, err := p.GetString(requestConsistency)
		require.NoError(t, err)
		require.Equal(t, "ONE", s)
	})
}
