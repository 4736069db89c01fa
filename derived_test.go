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

func TestProfile_With(t *testing.T) {
	t.Run("will layer the override on the parent", func(t *testing.T) {
		cfg := buildConfig(t, NewBuilder().
			WithDuration(requestTimeout, 100*time.Millisecond).
			WithString(requestConsistency, "LOCAL_ONE"))

		parent := cfg.DefaultProfile()
		derived := parent.WithDuration(requestTimeout, 500*time.Millisecond)

		d, err := derived.GetDuration(requestTimeout)
		require.NoError(t, err)
		require.Equal(t, 500*time.Millisecond, d)

		t.Run("inheriting everything else", func(t *testing.T) {
			s, err := derived.GetString(requestConsistency)
			require.NoError(t, err)
			require.Equal(t, "LOCAL_ONE", s)
		})

		t.Run("without mutating the parent", func(t *testing.T) {
			d, err := parent.GetDuration(requestTimeout)
			require.NoError(t, err)
			require.Equal(t, 100*time.Millisecond, d)
		})

		t.Run("keeping the parent's name", func(t *testing.T) {
			require.Equal(t, parent.Name(), derived.Name())
		})
	})

	t.Run("will apply overrides in order", func(t *testing.T) {
		t.Run("if the same option is overridden along the chain", func(t *testing.T) {
			cfg := buildConfig(t, NewBuilder().
				WithDuration(requestTimeout, 100*time.Millisecond))

			derived := cfg.DefaultProfile().
				WithDuration(requestTimeout, 200*time.Millisecond).
				WithDuration(requestTimeout, 300*time.Millisecond)

			d, err := derived.GetDuration(requestTimeout)
			require.NoError(t, err)
			require.Equal(t, 300*time.Millisecond, d)
		})
	})
}

func TestProfile_Without(t *testing.T) {
	t.Run("will unset the option in the derived profile", func(t *testing.T) {
		cfg := buildConfig(t, NewBuilder().
			WithDuration(requestTimeout, 100*time.Millisecond))

		parent := cfg.DefaultProfile()
		derived := parent.Without(requestTimeout)

		require.False(t, derived.IsDefined(requestTimeout))
		require.True(t, parent.IsDefined(requestTimeout))

		_, err := derived.GetDuration(requestTimeout)
		var merr MissingOptionError
		require.ErrorAs(t, err, &merr)
	})
}

func TestProfile_WithStringMap(t *testing.T) {
	t.Run("will replace the whole map option", func(t *testing.T) {
		cfg := buildConfig(t, NewBuilder().
			WithStringMap(authCredentials, map[string]string{
				"username": "old",
				"password": "old",
			}))

		derived := cfg.DefaultProfile().
			WithStringMap(authCredentials, map[string]string{"token": "abc"})

		m, err := derived.GetStringMap(authCredentials)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"token": "abc"}, m)
	})
}

func TestProfile_WithString(t *testing.T) {
	t.Run("will replace an inherited map option wholesale", func(t *testing.T) {
		inlineCredentials := NewOption(authCredentials.Path(), KindString)

		cfg := buildConfig(t, NewBuilder().
			WithStringMap(authCredentials, map[string]string{"token": "abc"}))

		derived := cfg.DefaultProfile().WithString(inlineCredentials, "inline")

		s, err := derived.GetString(inlineCredentials)
		require.NoError(t, err)
		require.Equal(t, "inline", s)

		_, err = derived.GetStringMap(authCredentials)
		var werr WrongKindError
		require.ErrorAs(t, err, &werr)
		require.Equal(t, authCredentials.Path(), werr.Path)

		require.Equal(t, []Entry{
			{Path: "advanced.auth.credentials", Value: "inline"},
		}, derived.EntrySet())
	})
}

func TestDerivedProfile_Reload(t *testing.T) {
	t.Run("will reflect the current generation", func(t *testing.T) {
		t.Run("for every option it does not override", func(t *testing.T) {
			src := newSwapSource(Map{"basic": map[string]any{"request": map[string]any{
				"timeout":     100 * time.Millisecond,
				"consistency": "LOCAL_ONE",
			}}})

			loader, err := NewBuilder(src).Build()
			require.NoError(t, err)

			cfg, err := loader.InitialConfig(context.Background())
			require.NoError(t, err)

			derived := cfg.DefaultProfile().
				WithDuration(requestTimeout, 500*time.Millisecond)

			src.swap(Map{"basic": map[string]any{"request": map[string]any{
				"timeout":     100 * time.Millisecond,
				"consistency": "EACH_QUORUM",
			}}})
			require.NoError(t, loader.Reload(context.Background()))

			require.Equal(t, uint64(2), derived.Generation())

			s, err := derived.GetString(requestConsistency)
			require.NoError(t, err)
			require.Equal(t, "EACH_QUORUM", s)

			t.Run("while its override sticks across reloads", func(t *testing.T) {
				d, err := derived.GetDuration(requestTimeout)
				require.NoError(t, err)
				require.Equal(t, 500*time.Millisecond, d)
			})
		})
	})

	t.Run("will track a named profile", func(t *testing.T) {
		src := newSwapSource(Map{
			"name":     "base",
			"profiles": map[string]any{"slow": map[string]any{"name": "slow"}},
		})

		loader, err := NewBuilder(src).Build()
		require.NoError(t, err)

		cfg, err := loader.InitialConfig(context.Background())
		require.NoError(t, err)

		slow, err := cfg.Profile("slow")
		require.NoError(t, err)
		derived := slow.WithInt(requestPageSize, 10)

		src.swap(Map{
			"name":     "base",
			"profiles": map[string]any{"slow": map[string]any{"name": "slower"}},
		})
		require.NoError(t, loader.Reload(context.Background()))

		s, err := derived.GetString(NewOption("name", KindString))
		require.NoError(t, err)
		require.Equal(t, "slower", s)
	})

	t.Run("will keep serving the last seen snapshot", func(t *testing.T) {
		t.Run("if the parent profile disappears after a reload", func(t *testing.T) {
			src := newSwapSource(Map{
				"name":     "base",
				"profiles": map[string]any{"slow": map[string]any{"name": "slow"}},
			})

			loader, err := NewBuilder(src).Build()
			require.NoError(t, err)

			cfg, err := loader.InitialConfig(context.Background())
			require.NoError(t, err)

			slow, err := cfg.Profile("slow")
			require.NoError(t, err)
			derived := slow.WithInt(requestPageSize, 10)

			src.swap(Map{"name": "base"})
			require.NoError(t, loader.Reload(context.Background()))

			s, err := derived.GetString(NewOption("name", KindString))
			require.NoError(t, err)
			require.Equal(t, "slow", s)
		})
	})
}

func TestDerivedProfile_EntrySet(t *testing.T) {
	t.Run("will enumerate the effective view sorted by path", func(t *testing.T) {
		cfg := buildConfig(t, NewBuilder().
			WithString(requestConsistency, "LOCAL_ONE"))

		derived := cfg.DefaultProfile().
			WithInt(requestPageSize, 100)

		require.Equal(t, []Entry{
			{Path: "basic.request.consistency", Value: "LOCAL_ONE"},
			{Path: "basic.request.page.size", Value: int64(100)},
		}, derived.EntrySet())
	})
}

func TestDerivedProfile_ComparisonKey(t *testing.T) {
	t.Run("will equal a plain profile with the same effective entries", func(t *testing.T) {
		a := buildConfig(t, NewBuilder().
			WithString(requestConsistency, "LOCAL_ONE").
			WithInt(requestPageSize, 100)).
			DefaultProfile()

		b := buildConfig(t, NewBuilder().
			WithString(requestConsistency, "LOCAL_ONE")).
			DefaultProfile().
			WithInt(requestPageSize, 100)

		require.Equal(t, a.Fingerprint(), b.Fingerprint())
	})
}
