package filestorage

import (
	"io"
)

// FileStorage — объектное хранилище для изображений оборудования
// и прочих вложений.
type FileStorage interface {
	// Save кладёт файл и возвращает публичный относительный путь.
	Save(file io.Reader, originalName string) (string, error)
	Delete(path string) error
}
