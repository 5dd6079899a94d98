package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5MB

var (
	ErrFileTooLarge    = errors.New("file exceeds 5MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/svg+xml": ".svg",
}

// Service writes uploaded images to local disk under a flat uploads
// directory and hands back the public path.
type Service struct {
	dir string
}

func NewService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Service{dir: dir}, nil
}

// Save validates and stores the upload, returning the path clients can
// fetch it from. Filenames are random so uploads never collide.
func (s *Service) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", err
	}

	logger.Debugf("Stored upload %s (%d bytes)", name, file.Size)
	return "/uploads/" + name, nil
}

// Delete removes a previously stored file by its public path. Unknown
// paths are ignored.
func (s *Service) Delete(publicPath string) error {
	name := strings.TrimPrefix(publicPath, "/uploads/")
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Service) Dir() string {
	return s.dir
}
