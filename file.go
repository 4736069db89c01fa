// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
)

// FileReader is an io.Reader that handles opening a file for reading automatically.
type FileReader struct {
	path string

	openOnce sync.Once
	fs       fs.FS
	file     io.ReadCloser
}

// NewFileReader configures a FileReader.
func NewFileReader(fsys fs.FS, path string) *FileReader {
	return &FileReader{
		path: path,
		fs:   fsys,
	}
}

// Read implements the io.Reader interface.
func (r *FileReader) Read(b []byte) (int, error) {
	var err error
	r.openOnce.Do(func() {
		r.file, err = r.fs.Open(r.path)
	})
	if err != nil {
		return 0, err
	}
	if r.file == nil {
		return 0, io.EOF
	}
	return r.file.Read(b)
}

// Close implements the io.Closer interface.
func (r *FileReader) Close() error {
	if r.file == nil {
		return nil
	}

	err := r.file.Close()
	r.file = nil
	return err
}

// UnsupportedFileExtError occurs when a config file's format cannot be
// told from its extension.
type UnsupportedFileExtError struct {
	Ext string
}

// Error implements the error interface.
func (e UnsupportedFileExtError) Error() string {
	return fmt.Sprintf("unsupported config file extension: %q", e.Ext)
}

// FromFile returns a source reading the given file from fsys on every
// resolution pass, choosing the format from the file extension.
// Supported extensions are .yaml, .yml and .json.
func FromFile(fsys fs.FS, path string) Source {
	return SourceFunc(func(store Store) error {
		r := NewFileReader(fsys, path)
		switch ext := filepath.Ext(path); ext {
		case ".yaml", ".yml":
			return FromYaml(r).Apply(store)
		case ".json":
			return FromJson(r).Apply(store)
		default:
			return UnsupportedFileExtError{Ext: ext}
		}
	})
}
