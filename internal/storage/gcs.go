package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCS stores files as objects of a Cloud Storage bucket, optionally
// below a prefix.
type GCS struct {
	bucket *gcs.BucketHandle
	prefix string
}

func NewGCS(client *gcs.Client, bucket, prefix string) *GCS {
	prefix = strings.TrimPrefix(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &GCS{
		bucket: client.Bucket(bucket),
		prefix: prefix,
	}
}

func (g *GCS) Name() string { return "gcs" }

func (g *GCS) key(name string) string {
	return g.prefix + name
}

func (g *GCS) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.bucket.Object(g.key(name)).NewWriter(ctx)
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.ContentType = ct
	}

	n, err := io.Copy(w, r)
	if err != nil {
		// cancelling the context aborts the upload
		cancel()
		w.Close()
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("finalize %s: %w", name, err)
	}
	return n, nil
}

// List returns the objects directly under the prefix in the bucket's
// lexical order. Nested objects are skipped.
func (g *GCS) List(ctx context.Context) ([]Object, error) {
	it := g.bucket.Objects(ctx, &gcs.Query{Prefix: g.prefix})

	var objects []Object
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list objects: %v", ErrStorageUnavailable, err)
		}
		name := strings.TrimPrefix(attrs.Name, g.prefix)
		if ValidateName(name) != nil {
			continue
		}
		objects = append(objects, Object{
			Name:    name,
			Size:    attrs.Size,
			ModTime: attrs.Updated,
		})
	}
	return objects, nil
}

func (g *GCS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, ErrNotFound
	}
	r, err := g.bucket.Object(g.key(name)).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return r, nil
}
