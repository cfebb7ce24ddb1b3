package storage

import "io"

// Storage persists raw media payloads. Implementations assign their own
// filenames; callers keep the returned name as the handle.
type Storage interface {
	SaveBytes(data []byte, ext string) (string, error)
	OpenFile(path string) (io.ReadSeekCloser, error)
	DeleteFile(path string) error
	DeleteAll() error
}
