package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/google/uuid"
)

type backupUseCase struct {
	userStorage ports.UserStorage
	files       ports.FileStorage
	retention   int
	now         func() time.Time
	logger      *slog.Logger
}

// NewBackupUseCase создает BackupUseCase. retention - сколько последних
// бэкапов пользователя остается после очередной выгрузки, 0 - без ограничения.
func NewBackupUseCase(userStorage ports.UserStorage, files ports.FileStorage, retention int, logger *slog.Logger) BackupUseCase {
	return &backupUseCase{
		userStorage: userStorage,
		files:       files,
		retention:   retention,
		now:         time.Now,
		logger:      logger,
	}
}

func backupPrefix(userID uint) string {
	return fmt.Sprintf("backups/%d/", userID)
}

// backupKey: backups/{user_id}/{20060102T150405Z}-{uuid}.json
func backupKey(userID uint, at time.Time) string {
	return fmt.Sprintf("%s%s-%s.json", backupPrefix(userID), at.UTC().Format("20060102T150405Z"), uuid.NewString())
}

func (uc *backupUseCase) BackupUser(ctx context.Context, userID uint) (*BackupResult, error) {
	user, err := uc.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(msgUserNotFound)
	}

	body, err := json.Marshal(user.Serialize())
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to encode backup", err)
	}

	key := backupKey(user.ID, uc.now())
	location, err := uc.files.UploadFile(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		uc.logger.Error("backup upload failed", "user_id", user.ID, "key", key, "error", err)
		return nil, domain.NewPersistenceError("Failed to upload backup", err)
	}

	uc.logger.Info("diary backup uploaded", "user_id", user.ID, "key", key, "bytes", len(body))
	uc.prune(ctx, user.ID, key)
	return &BackupResult{Key: key, Location: location}, nil
}

// prune удаляет старые бэкапы сверх retention. Только что загруженный ключ
// не удаляется никогда. Ошибки только логируются: бэкап уже создан.
func (uc *backupUseCase) prune(ctx context.Context, userID uint, current string) {
	if uc.retention <= 0 {
		return
	}

	keys, err := uc.files.ListFiles(ctx, backupPrefix(userID))
	if err != nil {
		uc.logger.Warn("failed to list backups for pruning", "user_id", userID, "error", err)
		return
	}

	older := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != current {
			older = append(older, k)
		}
	}
	// ключ начинается с UTC-времени, лексикографический порядок совпадает с хронологическим
	sort.Strings(older)

	keep := uc.retention - 1
	if len(older) <= keep {
		return
	}
	for _, k := range older[:len(older)-keep] {
		if err := uc.files.DeleteFile(ctx, k); err != nil {
			uc.logger.Warn("failed to delete old backup", "user_id", userID, "key", k, "error", err)
			continue
		}
		uc.logger.Info("old backup deleted", "user_id", userID, "key", k)
	}
}
