// Package jsonutil provides type-safe JSON helpers with standardized error
// handling. It backs the structured log formatter and the version stamps
// written next to cached fixtures.
package jsonutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
)

// MarshalJSON marshals any type to JSON with standardized error handling.
func MarshalJSON[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "marshal to JSON")
	}
	return data, nil
}

// UnmarshalJSON unmarshals JSON data to any type with standardized error handling.
func UnmarshalJSON[T any](data []byte) (T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return result, appErrors.WrapWithContext(err, "unmarshal JSON")
	}
	return result, nil
}

// ReadFile decodes the JSON document at path. A missing file yields an
// error matching fs.ErrNotExist.
func ReadFile[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path) //nolint:gosec // caller controls the path
	if err != nil {
		return zero, appErrors.FileReadError(path, err)
	}
	return UnmarshalJSON[T](data)
}

// WriteFile writes v as indented JSON through a temporary file in the same
// directory and a rename, so readers never observe a partial document.
func WriteFile[T any](path string, v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return appErrors.WrapWithContext(err, "marshal to JSON")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return appErrors.FileCreateError(path, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return appErrors.FileWriteError(tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return appErrors.FileWriteError(tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return appErrors.FileWriteError(path, err)
	}
	return nil
}
