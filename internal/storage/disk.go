package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Disk stores files in a local directory
type Disk struct {
	dir string
}

// NewDisk creates dir if needed and returns a backend rooted at it
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads directory %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Name() string { return "disk" }

func (d *Disk) Dir() string { return d.dir }

func (d *Disk) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path := filepath.Join(d.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("close %s: %w", name, err)
	}
	return n, nil
}

// List returns the regular files of the directory in lexical order
func (d *Disk) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, d.dir, err)
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			// removed since ReadDir
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %v", ErrStorageUnavailable, e.Name(), err)
		}
		objects = append(objects, Object{
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return objects, nil
}

func (d *Disk) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}
