// Copyright (c) 2025 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"github.com/spf13/viper"
)

// FromViper returns a source bridging an already initialized
// [viper.Viper] into the engine. Every setting viper knows about at
// the time of a resolution pass is applied, so reloading the loader
// after viper re-reads its config file picks up the changes.
func FromViper(v *viper.Viper) Source {
	return SourceFunc(func(store Store) error {
		return Map(v.AllSettings()).Apply(store)
	})
}
