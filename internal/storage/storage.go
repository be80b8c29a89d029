// Package storage is the host file primitive used by the audio cache:
// existence checks, sizes, directory listings and HTTP downloads into
// local files.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// partSuffix marks a download that has not completed yet.
const partSuffix = ".part"

// ErrStatus is matched by errors.Is for any non-2xx download response.
var ErrStatus = errors.New("unexpected http status")

// StatusError reports a download that completed with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download returned status %d", e.Code)
}

// Is lets errors.Is(err, ErrStatus) match any StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// FileSystem is the contract the cache consumes from the host platform.
// Every method may fail; callers treat failures as absent or zero.
type FileSystem interface {
	Exists(path string) bool
	// Download fetches url into dest and returns the HTTP status code.
	// dest only appears once the body has been fully written.
	Download(ctx context.Context, url, dest string) (int, error)
	Remove(path string) error
	// List returns the names of regular files in dir, skipping partial downloads.
	List(dir string) ([]string, error)
	Size(path string) (int64, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	MkdirAll(dir string) error
}

// IsPartial reports whether name is an in-progress download file.
func IsPartial(name string) bool {
	return len(name) > len(partSuffix) && name[len(name)-len(partSuffix):] == partSuffix
}
