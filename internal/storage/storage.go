// Package storage holds the backends uploaded files are written to.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("object not found")
	ErrInvalidName        = errors.New("invalid object name")
)

// Object is a stored file as reported by a backend listing
type Object struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Backend persists uploaded files under flat names
type Backend interface {
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	List(ctx context.Context) ([]Object, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Name() string
}

// ValidateName rejects names that are not a single path element
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidName
	}
	return nil
}
