package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// savePhoto stores the "photo" part of a multipart form, if present, and
// returns its public path. A form without a photo part yields (nil, nil);
// the caller decides whether that means "no photo" or "keep the old one".
func (h *handler) savePhoto(c echo.Context) (*string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		return nil, nil
	}
	url, err := saveUpload(h.uploadDir, file)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// saveUpload copies an uploaded file into dir under a generated name,
// keeping only the extension of the client-supplied filename.
func saveUpload(dir string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return "/uploads/" + name, nil
}
