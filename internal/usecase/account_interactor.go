package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
)

const (
	msgEmailExists  = "Email address already exists"
	msgLoginFailed  = "Failed to login. Check your email and password."
	msgUserNotFound = "User not found"

	msgPasswordTooLong = "Password must be at most 72 bytes"
	maxPasswordBytes   = 72
)

type accountUseCase struct {
	userStorage ports.UserStorage
	hasher      ports.PasswordHasher
	tokens      TokenIssuer
	events      *eventEmitter
	logger      *slog.Logger
}

func NewAccountUseCase(
	userStorage ports.UserStorage,
	hasher ports.PasswordHasher,
	tokens TokenIssuer,
	publisher ports.DiaryEventPublisher,
	logger *slog.Logger,
) AccountUseCase {
	return &accountUseCase{
		userStorage: userStorage,
		hasher:      hasher,
		tokens:      tokens,
		events:      newEventEmitter(publisher, logger),
		logger:      logger,
	}
}

func (uc *accountUseCase) Register(ctx context.Context, in RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in, registerMessages); err != nil {
		return err
	}
	// bcrypt учитывает только первые 72 байта и отказывает на более длинных
	if len(in.Password) > maxPasswordBytes {
		return domain.NewValidationError(msgPasswordTooLong)
	}

	existing, err := uc.userStorage.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return domain.NewPersistenceError("Failed to look up user", err)
	}
	if existing != nil {
		return domain.NewConflictError(msgEmailExists)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return domain.NewPersistenceError("Failed to register user", err)
	}

	user := domain.NewUser(in.Email, hash, in.FirstName, in.LastName, in.TOS)
	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewConflictError(msgEmailExists)
		}
		return domain.NewPersistenceError("Failed to register user", err)
	}

	uc.logger.Info("user registered", "user_id", user.ID)
	uc.events.emit(ctx, payloads.NewDiaryEvent(payloads.EventUserRegistered, map[string]any{
		"email": user.Email,
	}).WithUser(user.ID))
	return nil
}

func (uc *accountUseCase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in, loginMessages); err != nil {
		return nil, err
	}

	user, err := uc.userStorage.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up user", err)
	}
	if user == nil || !uc.hasher.Compare(user.Password, in.Password) {
		uc.logger.Warn("login rejected", "email", in.Email)
		return nil, domain.NewAuthError(msgLoginFailed)
	}

	token, expires, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to issue token", err)
	}

	// в ответе нужен дневник, GetUserByEmail его не подгружает
	full, err := uc.userStorage.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up user", err)
	}
	if full == nil {
		return nil, domain.NewAuthError(msgLoginFailed)
	}

	return &LoginResult{
		User:      full.Serialize(),
		Token:     token,
		ExpiresAt: expires.UnixMilli(),
	}, nil
}

func (uc *accountUseCase) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := uc.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(msgUserNotFound)
	}
	return user, nil
}
