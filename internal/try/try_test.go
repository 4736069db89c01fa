// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package try

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecover(t *testing.T) {
	t.Run("will do nothing", func(t *testing.T) {
		t.Run("if there is no panic", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				return nil
			}
			require.NoError(t, f())
		})
	})

	t.Run("will set the error", func(t *testing.T) {
		t.Run("if a panic is recovered", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				panic("boom")
			}

			err := f()
			var perr PanicError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, "boom", perr.Value)
		})

		t.Run("if a panic carries an error it unwraps to it", func(t *testing.T) {
			cause := errors.New("boom")
			f := func() (err error) {
				defer Recover(&err)
				panic(cause)
			}
			require.ErrorIs(t, f(), cause)
		})
	})

	t.Run("will join onto an existing error", func(t *testing.T) {
		base := errors.New("base")
		f := func() (err error) {
			defer Recover(&err)
			err = base
			panic("boom")
		}

		err := f()
		require.ErrorIs(t, err, base)
		var perr PanicError
		require.ErrorAs(t, err, &perr)
	})
}

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	t.Run("will do nothing", func(t *testing.T) {
		t.Run("if the value is not a closer", func(t *testing.T) {
			var err error
			Close(&err, strings.NewReader("hello"))
			require.NoError(t, err)
		})
	})

	t.Run("will close the value", func(t *testing.T) {
		c := &closer{}
		var err error
		Close(&err, c)
		require.True(t, c.closed)
		require.NoError(t, err)
	})

	t.Run("will set the error", func(t *testing.T) {
		t.Run("if closing fails", func(t *testing.T) {
			cause := errors.New("close failed")
			var err error
			Close(&err, &closer{err: cause})
			require.ErrorIs(t, err, cause)
		})

		t.Run("joining onto an existing error", func(t *testing.T) {
			base := errors.New("base")
			cause := errors.New("close failed")
			err := base
			Close(&err, &closer{err: cause})
			require.ErrorIs(t, err, base)
			require.ErrorIs(t, err, cause)
		})
	})
}
