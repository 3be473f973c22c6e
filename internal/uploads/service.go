// Package uploads stores multipart uploads in a storage backend and lists them.
package uploads

import (
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/metrics"
	"cloud-chat-backend/internal/models"
	"cloud-chat-backend/internal/repo"
	"cloud-chat-backend/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"gorm.io/datatypes"
)

// PublicPrefix is the URL path uploaded files are served under
const PublicPrefix = "/uploads"

// DefaultMaxFileSize is the per-file size limit
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

var (
	ErrNoFilesProvided = errors.New("no files provided")
	ErrFileTooLarge    = errors.New("file too large")
	ErrAuditDisabled   = errors.New("upload audit index is not configured")
)

type Service struct {
	backend     storage.Backend
	maxFileSize int64
	now         func() time.Time
	audit       repo.UploadRepoInterface
	metrics     *metrics.Metrics
	log         *logger.Logger
}

type Option func(*Service)

func WithMaxFileSize(n int64) Option {
	return func(s *Service) { s.maxFileSize = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAudit records every stored file in the upload audit index
func WithAudit(r repo.UploadRepoInterface) Option {
	return func(s *Service) { s.audit = r }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(backend storage.Backend, opts ...Option) *Service {
	s := &Service{
		backend:     backend,
		maxFileSize: DefaultMaxFileSize,
		now:         time.Now,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RetrievalPath returns the public path of a stored file
func RetrievalPath(name string) string {
	return PublicPrefix + "/" + name
}

// StoreFiles writes every file to the backend and returns their retrieval
// paths in input order. Files stored before a failure are kept.
func (s *Service) StoreFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesProvided
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := s.storeFile(ctx, fh)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Service) storeFile(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, fh.Filename, fh.Size, s.maxFileSize)
	}

	name := GenerateName(s.now(), fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	size, err := s.backend.Save(ctx, name, io.LimitReader(src, fh.Size))
	if err != nil {
		s.metrics.RecordStorageError("save")
		return "", fmt.Errorf("store %s: %w", name, err)
	}
	s.metrics.RecordUpload(size)

	path := RetrievalPath(name)
	s.log.Info().
		Str("name", name).
		Str("original", fh.Filename).
		Int64("size", size).
		Msg("file stored")

	if s.audit != nil {
		s.recordUpload(ctx, fh, name, path, size)
	}
	return path, nil
}

// recordUpload failures only get logged; the file is already stored
func (s *Service) recordUpload(ctx context.Context, fh *multipart.FileHeader, name, path string, size int64) {
	headers, err := json.Marshal(fh.Header)
	if err != nil {
		headers = []byte("{}")
	}
	record := &models.UploadRecord{
		Name:         name,
		OriginalName: fh.Filename,
		URL:          path,
		Size:         size,
		ContentType:  fh.Header.Get("Content-Type"),
		Headers:      datatypes.JSON(headers),
	}
	if err := s.audit.Record(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("failed to record upload")
	}
}

// ListFiles enumerates every stored file in the backend's order
func (s *Service) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	objects, err := s.backend.List(ctx)
	if err != nil {
		s.metrics.RecordStorageError("list")
		if !errors.Is(err, storage.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
		}
		return nil, err
	}

	files := make([]models.StoredFile, 0, len(objects))
	for _, o := range objects {
		files = append(files, models.StoredFile{
			Name:     o.Name,
			URL:      RetrievalPath(o.Name),
			Size:     o.Size,
			Uploaded: o.ModTime,
		})
	}
	return files, nil
}

// Open returns the content of a stored file
func (s *Service) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.backend.Open(ctx, name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.metrics.RecordStorageError("open")
	}
	return rc, err
}

// History returns the newest entries of the upload audit index
func (s *Service) History(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	if s.audit == nil {
		return nil, ErrAuditDisabled
	}
	return s.audit.GetLatest(ctx, limit)
}
