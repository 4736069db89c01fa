// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"os"
	"strings"

	"github.com/helixdb/driverconf/key"
)

// Env represents a Source where its underlying values
// are extracted from environment variables.
type Env struct {
	prefix  string
	environ func() []string
}

// FromEnv returns a Source which will apply its config from the
// environment variables available to the current process. Only
// variables starting with the given prefix are considered; the prefix
// is stripped and the remainder is mapped onto the dotted path key
// space by lowercasing it and replacing "_" with ".", e.g. with prefix
// "HELIX_" the variable HELIX_BASIC_REQUEST_PAGE_SIZE binds the path
// "basic.request.page.size".
//
// Values are applied as raw strings; typed getters will not coerce
// them, so environment overrides suit string options.
func FromEnv(prefix string) Env {
	return Env{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Apply implements the [Source] interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if !strings.HasPrefix(k, src.prefix) {
			continue
		}
		path := strings.ToLower(strings.TrimPrefix(k, src.prefix))
		path = strings.ReplaceAll(path, "_", ".")
		err := store.Set(key.Parse(path), v)
		if err != nil {
			return err
		}
	}
	return nil
}
