package usecase

import "context"

// BackupResult - где лежит выгрузка дневника
type BackupResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
}

// BackupUseCase выгружает дневник пользователя в объектное хранилище
type BackupUseCase interface {
	BackupUser(ctx context.Context, userID uint) (*BackupResult, error)
}
