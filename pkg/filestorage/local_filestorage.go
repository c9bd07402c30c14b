package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalFileStorage — хранилище на локальном диске. Имена файлов —
// uuid, чтобы не зависеть от пользовательских имён.
type LocalFileStorage struct {
	baseDir string
}

func NewLocalFileStorage(baseDir string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога %s: %w", baseDir, err)
	}
	return &LocalFileStorage{baseDir: baseDir}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	fullPath := filepath.Join(s.baseDir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("создание файла: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("запись файла: %w", err)
	}

	return filepath.ToSlash(filepath.Join("/", s.baseDir, name)), nil
}

func (s *LocalFileStorage) Delete(path string) error {
	// Путь публичный, вида /uploads/<uuid>.<ext>; защищаемся от выхода
	// за пределы каталога.
	name := filepath.Base(path)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("недопустимый путь файла: %q", path)
	}
	return os.Remove(filepath.Join(s.baseDir, name))
}
