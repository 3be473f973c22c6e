package handlers

import (
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/models"
	"cloud-chat-backend/internal/storage"
	"cloud-chat-backend/internal/uploads"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// UploadService is the upload behaviour the handler needs
type UploadService interface {
	StoreFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	ListFiles(ctx context.Context) ([]models.StoredFile, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	History(ctx context.Context, limit int) ([]models.UploadRecord, error)
}

type FilesHandler struct {
	uploads UploadService
	log     *logger.Logger
}

func NewFilesHandler(uploads UploadService, log *logger.Logger) *FilesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &FilesHandler{uploads: uploads, log: log.Component("files")}
}

// function to store the files of the "files" form field
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	var files []*multipart.FileHeader
	// a request that is not multipart simply carries no files
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["files"]
	}

	paths, err := h.uploads.StoreFiles(c.UserContext(), files)
	switch {
	case errors.Is(err, uploads.ErrNoFilesProvided):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "لم يتم اختيار أي ملفات",
		})
	case errors.Is(err, uploads.ErrFileTooLarge):
		h.log.Warn().Err(err).Int("stored", len(paths)).Msg("upload rejected")
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"success": false,
			"error":   "حجم الملف أكبر من الحد المسموح",
		})
	case err != nil:
		h.log.Error().Err(err).Int("stored", len(paths)).Msg("upload error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "حدث خطأ أثناء الرفع",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("تم رفع %d ملف بنجاح!", len(paths)),
		"files":   paths,
	})
}

// function to list all stored files
func (h *FilesHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.uploads.ListFiles(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list files")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "خطأ في قراءة الملفات",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"files": files,
	})
}

// function to serve the content of a stored file
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	name := c.Params("name")

	rc, err := h.uploads.Open(c.UserContext(), name)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}
	if err != nil {
		h.log.Error().Err(err).Str("name", name).Msg("failed to open file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	if ext := filepath.Ext(name); ext != "" {
		c.Type(ext)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	return c.SendStream(rc)
}

// function to list the upload audit index
func (h *FilesHandler) History(c *fiber.Ctx) error {
	records, err := h.uploads.History(c.UserContext(), c.QueryInt("limit", 20))
	if errors.Is(err, uploads.ErrAuditDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Upload history is not enabled",
		})
	}
	if err != nil {
		h.log.Error().Err(err).Msg("failed to get upload history")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get upload history",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"uploads": records,
	})
}
