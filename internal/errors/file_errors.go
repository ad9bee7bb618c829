// Package errors - file operation error utilities
package errors

import (
	"errors"
	"fmt"
)

// Error templates for file operations
var (
	errFileOperationTemplate      = errors.New("file operation failed")
	errDirectoryOperationTemplate = errors.New("directory operation failed")
)

// FileOperationError creates a standardized file operation error.
//
// Example usage:
//
//	return FileOperationError("create", "/clone/src/main.c", err)
//	// Returns: "file operation failed: create '/clone/src/main.c': <original error>"
func FileOperationError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", errFileOperationTemplate, operation, path, err)
}

// DirectoryOperationError creates a standardized directory operation error.
//
// Example usage:
//
//	return DirectoryOperationError("remove", "/clone/.git", err)
//	// Returns: "directory operation failed: remove '/clone/.git': <original error>"
func DirectoryOperationError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", errDirectoryOperationTemplate, operation, path, err)
}

// FileReadError is a convenience function for file read operations.
func FileReadError(path string, err error) error {
	return FileOperationError("read", path, err)
}

// FileWriteError is a convenience function for file write operations.
func FileWriteError(path string, err error) error {
	return FileOperationError("write", path, err)
}

// FileCreateError is a convenience function for file creation operations.
func FileCreateError(path string, err error) error {
	return FileOperationError("create", path, err)
}

// FileDeleteError is a convenience function for file deletion operations.
func FileDeleteError(path string, err error) error {
	return FileOperationError("delete", path, err)
}

// DirectoryCreateError is a convenience function for directory creation.
func DirectoryCreateError(path string, err error) error {
	return DirectoryOperationError("create", path, err)
}

// DirectoryRemoveError is a convenience function for recursive directory removal.
func DirectoryRemoveError(path string, err error) error {
	return DirectoryOperationError("remove", path, err)
}

// DirectoryWalkError is a convenience function for directory walking errors.
func DirectoryWalkError(path string, err error) error {
	return DirectoryOperationError("walk", path, err)
}
