package ports

import (
	"context"
	"io"
)

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл и возвращает его URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	// ListFiles возвращает ключи объектов с заданным префиксом
	ListFiles(ctx context.Context, prefix string) ([]string, error)
	DeleteFile(ctx context.Context, key string) error
}

// PasswordHasher хеширует и сверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
