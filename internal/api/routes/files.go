package routes

import (
	"cloud-chat-backend/internal/handlers"
	"cloud-chat-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
)

func registerFiles(r fiber.Router, deps Dependencies) {
	filesHandler := handlers.NewFilesHandler(deps.Uploads, deps.Logger)

	r.Get("/files", filesHandler.ListFiles)
	r.Get("/files/history", filesHandler.History)
	r.Post("/upload", filesHandler.Upload)
	r.Get(uploads.PublicPrefix+"/:name", filesHandler.Download)
}
