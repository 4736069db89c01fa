// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"fmt"
)

// MissingOptionError occurs when a typed getter is called for an
// option that has no resolvable entry in the effective profile.
type MissingOptionError struct {
	// Path is the dotted path of the requested option.
	Path string

	// Profile is the name of the profile the lookup was performed against.
	Profile string
}

// Error implements the error interface.
func (e MissingOptionError) Error() string {
	return fmt.Sprintf("option %q is not defined in profile %q", e.Path, e.Profile)
}

// WrongKindError occurs when the stored value for an option cannot be
// represented as the kind requested by the getter. Values are never
// coerced lossily, e.g. a string is never parsed into a number.
type WrongKindError struct {
	// Path is the dotted path of the requested option.
	Path string

	// Kind is the kind the getter asked for.
	Kind Kind

	// Value is the stored value which failed to coerce.
	Value any
}

// Error implements the error interface.
func (e WrongKindError) Error() string {
	return fmt.Sprintf("option %q is not a %s: %v (%T)", e.Path, e.Kind, e.Value, e.Value)
}

// ReservedProfileNameError occurs when a secondary profile is declared
// with the reserved name of the default profile.
type ReservedProfileNameError struct {
	Name string
}

// Error implements the error interface.
func (e ReservedProfileNameError) Error() string {
	return fmt.Sprintf("%q is a reserved profile name", e.Name)
}

// UnknownProfileError occurs when requesting a profile that was never declared.
type UnknownProfileError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown profile: %q", e.Name)
}

// SourceError wraps a failure from a config [Source] during resolution.
type SourceError struct {
	Cause error
}

// Error implements the error interface.
func (e SourceError) Error() string {
	return fmt.Sprintf("config source failed to apply: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SourceError) Unwrap() error {
	return e.Cause
}

// InvalidYamlError occurs if a YAML source contains invalid YAML.
type InvalidYamlError struct {
	cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.cause
}

// InvalidJsonError occurs if a JSON source contains invalid JSON.
type InvalidJsonError struct {
	cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.cause
}
