package usecase_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/adapter/auth"
	"github.com/GoArmGo/FoodDiary/internal/database/client"
	"github.com/GoArmGo/FoodDiary/internal/database/storage"
	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/GoArmGo/FoodDiary/internal/logger"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
	"github.com/GoArmGo/FoodDiary/internal/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []payloads.DiaryEvent
	err    error
}

func (p *recordingPublisher) PublishDiaryEvent(_ context.Context, ev payloads.DiaryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

type memFiles struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memFiles) UploadFile(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[key] = b
	m.types[key] = contentType
	return "http://minio.local/diary-backups/" + key, nil
}

func (m *memFiles) ListFiles(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *memFiles) DeleteFile(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

type env struct {
	users    *storage.UserStorage
	diary    *storage.DiaryStorage
	activity *storage.ActivityStorage
	events   *recordingPublisher
	account  usecase.AccountUseCase
	diaryUC  usecase.DiaryUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	c, err := client.NewSQLite(dsn, client.GormConfig("info"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	log := logger.Discard()
	e := &env{
		users:    storage.NewUserStorage(c.Gorm, log),
		diary:    storage.NewDiaryStorage(c.Gorm, log),
		activity: storage.NewActivityStorage(c.Gorm, log),
		events:   &recordingPublisher{},
	}
	e.account = usecase.NewAccountUseCase(e.users, auth.NewBcryptHasher(4), auth.NewJWTIssuer("secret", 7*24*time.Hour), e.events, log)
	e.diaryUC = usecase.NewDiaryUseCase(e.users, e.diary, e.events, log)
	return e
}

func (e *env) register(t *testing.T, email string) *domain.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.account.Register(ctx, usecase.RegisterInput{
		Email: email, Password: "pw", FirstName: "Ada", LastName: "Lovelace", TOS: true,
	}))
	u, err := e.users.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func food(name string, tod string) usecase.FoodInput {
	return usecase.FoodInput{
		Name:        name,
		Quantity:    1,
		ServingSize: "1",
		ServingUnit: "piece",
		Calories:    95,
		TimeOfDay:   tod,
	}
}

func assertKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	got, ok := domain.Message(err)
	require.True(t, ok)
	assert.Equal(t, msg, got)
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.register(t, "ada@example.com")
	assert.NotEqual(t, "pw", u.Password)
	assert.True(t, u.IsActive)

	err := e.account.Register(ctx, usecase.RegisterInput{
		Email: "ada@example.com", Password: "other", FirstName: "A", LastName: "L", TOS: true,
	})
	assertKind(t, err, domain.ErrConflict, "Email address already exists")

	assert.Equal(t, []string{payloads.EventUserRegistered}, e.events.kinds())
}

func TestRegister_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		in  usecase.RegisterInput
		msg string
	}{
		{usecase.RegisterInput{Password: "pw", FirstName: "A", LastName: "L", TOS: true}, "Email is required"},
		{usecase.RegisterInput{Email: "a@b.c", FirstName: "A", LastName: "L", TOS: true}, "Password is required"},
		{usecase.RegisterInput{Email: "a@b.c", Password: "pw", LastName: "L", TOS: true}, "First name is required"},
		{usecase.RegisterInput{Email: "a@b.c", Password: "pw", FirstName: "A", TOS: true}, "Last name is required"},
		{usecase.RegisterInput{Email: "a@b.c", Password: "pw", FirstName: "A", LastName: "L"}, "tos is required"},
	}
	for _, tc := range cases {
		assertKind(t, e.account.Register(ctx, tc.in), domain.ErrValidation, tc.msg)
	}

	long := usecase.RegisterInput{
		Email: "long@b.c", Password: strings.Repeat("p", 80), FirstName: "A", LastName: "L", TOS: true,
	}
	assertKind(t, e.account.Register(ctx, long), domain.ErrValidation, "Password must be at most 72 bytes")

	u, err := e.users.GetUserByEmail(ctx, "long@b.c")
	require.NoError(t, err)
	assert.Nil(t, u)

	long.Password = strings.Repeat("p", 72)
	require.NoError(t, e.account.Register(ctx, long))
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")

	res, err := e.account.Login(ctx, usecase.LoginInput{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Empty(t, res.User.Diary)

	// срок жизни около 7 дней
	ttl := time.UnixMilli(res.ExpiresAt).Sub(time.Now())
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), ttl.Seconds(), 60)

	_, err = e.account.Login(ctx, usecase.LoginInput{Email: "ada@example.com", Password: "wrong"})
	assertKind(t, err, domain.ErrAuth, "Failed to login. Check your email and password.")

	_, err = e.account.Login(ctx, usecase.LoginInput{Email: "nobody@example.com", Password: "pw"})
	assertKind(t, err, domain.ErrAuth, "Failed to login. Check your email and password.")

	_, err = e.account.Login(ctx, usecase.LoginInput{Password: "pw"})
	assertKind(t, err, domain.ErrValidation, "Missing email parameter")

	_, err = e.account.Login(ctx, usecase.LoginInput{Email: "ada@example.com"})
	assertKind(t, err, domain.ErrValidation, "Missing password parameter")
}

func TestLogin_IncludesDiary(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")

	_, err := e.diaryUC.CreateDiaryEntry(ctx, usecase.CreateDiaryEntryInput{
		Foods: []usecase.FoodInput{food("apple", "morning")}, Date: "2024-03-01", UserID: u.ID,
	})
	require.NoError(t, err)

	res, err := e.account.Login(ctx, usecase.LoginInput{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Len(t, res.User.Diary, 1)
	assert.Equal(t, "2024-03-01", res.User.Diary[0].Date)
	assert.Len(t, res.User.Diary[0].Foods, 1)
}

func TestGetUser_NotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.account.GetUser(context.Background(), 42)
	assertKind(t, err, domain.ErrNotFound, "User not found")
}

func TestCreateDiaryEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.register(t, "ada@example.com")
	bob := e.register(t, "bob@example.com")

	day, err := e.diaryUC.CreateDiaryEntry(ctx, usecase.CreateDiaryEntryInput{
		Foods:  []usecase.FoodInput{food("apple", "morning"), food("soup", "afternoon")},
		Date:   "2024-03-01",
		UserID: ada.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, day.ID)
	require.Len(t, day.Foods, 2)
	for _, f := range day.Foods {
		assert.Equal(t, day.ID, f.DayID)
	}

	_, err = e.diaryUC.CreateDiaryEntry(ctx, usecase.CreateDiaryEntryInput{
		Foods: []usecase.FoodInput{food("pear", "night")}, Date: "2024-03-01", UserID: ada.ID,
	})
	assertKind(t, err, domain.ErrConflict, "Day already exists. Please update existing day instead of creating again.")

	// та же дата у другого пользователя допустима
	_, err = e.diaryUC.CreateDiaryEntry(ctx, usecase.CreateDiaryEntryInput{
		Foods: []usecase.FoodInput{food("pear", "night")}, Date: "2024-03-01", UserID: bob.ID,
	})
	require.NoError(t, err)
}

func TestCreateDiaryEntry_RejectsWholeEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")

	_, err := e.diaryUC.CreateDiaryEntry(ctx, usecase.CreateDiaryEntryInput{
		Foods:  []usecase.FoodInput{food("apple", "morning"), food("toast", "evening"), food("soup", "night")},
		Date:   "2024-03-01",
		UserID: u.ID,
	})
	assertKind(t, err, domain.ErrValidation, "foods[1]: Time_of_day must be 'morning', 'afternoon', or 'night'.")

	foods, err := e.diaryUC.ListAllFoods(ctx)
	require.NoError(t, err)
	assert.Empty(t, foods)

	day, err := e.diary.GetDayByUserAndDate(ctx, u.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestCreateDiaryEntry_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")

	cases := []struct {
		in   usecase.CreateDiaryEntryInput
		kind error
		msg  string
	}{
		{usecase.CreateDiaryEntryInput{Date: "2024-03-01", UserID: u.ID}, domain.ErrValidation, "Array of Foods is required"},
		{usecase.CreateDiaryEntryInput{Foods: []usecase.FoodInput{}, Date: "2024-03-01", UserID: u.ID}, domain.ErrValidation, "Array of Foods is required"},
		{usecase.CreateDiaryEntryInput{Foods: []usecase.FoodInput{food("a", "morning")}, UserID: u.ID}, domain.ErrValidation, "Date is required"},
		{usecase.CreateDiaryEntryInput{Foods: []usecase.FoodInput{food("a", "morning")}, Date: "01/03/2024", UserID: u.ID}, domain.ErrValidation, "Date must be formatted as YYYY-MM-DD"},
		{usecase.CreateDiaryEntryInput{Foods: []usecase.FoodInput{food("a", "morning")}, Date: "2024-03-01"}, domain.ErrValidation, "User ID is required"},
		{usecase.CreateDiaryEntryInput{Foods: []usecase.FoodInput{food("a", "morning")}, Date: "2024-03-01", UserID: 999}, domain.ErrNotFound, "Invalid User ID"},
		// продукты проверяются раньше пользователя
		{usecase.CreateDiaryEntryInput{Foods: []usecase.FoodInput{food("a", "noon")}, Date: "2024-03-01", UserID: 999}, domain.ErrValidation, "foods[0]: Time_of_day must be 'morning', 'afternoon', or 'night'."},
	}
	for _, tc := range cases {
		_, err := e.diaryUC.CreateDiaryEntry(ctx, tc.in)
		assertKind(t, err, tc.kind, tc.msg)
	}
}

func TestFoodLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")

	day, err := e.diaryUC.CreateDiaryEntry(ctx, usecase.CreateDiaryEntryInput{
		Foods: []usecase.FoodInput{food("apple", "morning")}, Date: "2024-03-01", UserID: u.ID,
	})
	require.NoError(t, err)

	added, err := e.diaryUC.AddFoodToDay(ctx, usecase.AddFoodInput{FoodInput: food("soup", "afternoon"), DayID: day.ID})
	require.NoError(t, err)
	assert.Equal(t, day.ID, added.DayID)

	_, err = e.diaryUC.AddFoodToDay(ctx, usecase.AddFoodInput{FoodInput: food("soup", "afternoon"), DayID: 999})
	assertKind(t, err, domain.ErrNotFound, "The requested day does not exist.")

	upd := food("stew", "night")
	upd.Calories = 300
	updated, err := e.diaryUC.UpdateFood(ctx, added.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "stew", updated.Name)
	assert.Equal(t, domain.Night, updated.TimeOfDay)
	assert.Equal(t, 300.0, updated.Calories)

	got, err := e.diaryUC.GetDay(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, got.Foods, 2)
	assert.Equal(t, "stew", got.Foods[1].Name)

	bad := food("stew", "evening")
	_, err = e.diaryUC.UpdateFood(ctx, added.ID, bad)
	assertKind(t, err, domain.ErrValidation, "Time_of_day must be 'morning', 'afternoon', or 'night'.")

	require.NoError(t, e.diaryUC.DeleteFood(ctx, added.ID))
	assertKind(t, e.diaryUC.DeleteFood(ctx, added.ID), domain.ErrNotFound, "ID not found. The requested food does not exist.")

	_, err = e.diaryUC.UpdateFood(ctx, added.ID, upd)
	assertKind(t, err, domain.ErrNotFound, "ID not found. The requested food does not exist.")

	foods, err := e.diaryUC.ListAllFoods(ctx)
	require.NoError(t, err)
	assert.Len(t, foods, 1)

	_, err = e.diaryUC.GetDay(ctx, 999)
	assertKind(t, err, domain.ErrNotFound, "The requested day does not exist.")

	assert.Equal(t, []string{
		payloads.EventUserRegistered,
		payloads.EventDayCreated,
		payloads.EventFoodCreated,
		payloads.EventFoodUpdated,
		payloads.EventFoodDeleted,
	}, e.events.kinds())
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")

	e.events.err = fmt.Errorf("broker down")
	day, err := e.diaryUC.CreateDiaryEntry(ctx, usecase.CreateDiaryEntryInput{
		Foods: []usecase.FoodInput{food("apple", "morning")}, Date: "2024-03-01", UserID: u.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, day.ID)
}

func TestActivity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")
	uc := usecase.NewActivityUseCase(e.users, e.activity, logger.Discard())

	for _, ev := range e.events.events {
		require.NoError(t, uc.RecordEvent(ctx, ev))
		// повторная доставка
		require.NoError(t, uc.RecordEvent(ctx, ev))
	}

	entries, err := uc.ListUserActivity(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, payloads.EventUserRegistered, entries[0].Kind)

	_, err = uc.ListUserActivity(ctx, 999)
	assertKind(t, err, domain.ErrNotFound, "User not found")

	assertKind(t, uc.RecordEvent(ctx, payloads.DiaryEvent{ID: uuid.New()}), domain.ErrValidation, "event kind is required")

	// событие без id нельзя отличить от повторной доставки
	noID := payloads.DiaryEvent{Kind: payloads.EventFoodCreated}.WithUser(u.ID)
	assertKind(t, uc.RecordEvent(ctx, noID), domain.ErrValidation, "event id is required")
	entries, err = uc.ListUserActivity(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackupUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ada@example.com")
	files := &memFiles{objects: map[string][]byte{}, types: map[string]string{}}
	uc := usecase.NewBackupUseCase(e.users, files, 5, logger.Discard())

	res, err := uc.BackupUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Regexp(t, fmt.Sprintf(`^backups/%d/\d{8}T\d{6}Z-[0-9a-f-]{36}\.json$`, u.ID), res.Key)
	assert.Equal(t, "http://minio.local/diary-backups/"+res.Key, res.Location)
	assert.Equal(t, "application/json", files.types[res.Key])
	assert.Contains(t, string(files.objects[res.Key]), `"email":"ada@example.com"`)
	assert.NotContains(t, string(files.objects[res.Key]), "password")

	_, err = uc.BackupUser(ctx, 999)
	assertKind(t, err, domain.ErrNotFound, "User not found")
}

func TestBackupUser_KeepsLatestBackups(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.register(t, "ada@example.com")
	bob := e.register(t, "bob@example.com")
	files := &memFiles{objects: map[string][]byte{}, types: map[string]string{}}
	uc := usecase.NewBackupUseCase(e.users, files, 2, logger.Discard())

	// старый бэкап другого пользователя не трогается
	bobRes, err := uc.BackupUser(ctx, bob.ID)
	require.NoError(t, err)

	files.objects[fmt.Sprintf("backups/%d/20000101T000000Z-old.json", ada.ID)] = []byte("{}")
	files.objects[fmt.Sprintf("backups/%d/20010101T000000Z-older.json", ada.ID)] = []byte("{}")

	var last string
	for i := 0; i < 3; i++ {
		res, err := uc.BackupUser(ctx, ada.ID)
		require.NoError(t, err)
		last = res.Key
	}

	adaKeys, err := files.ListFiles(ctx, fmt.Sprintf("backups/%d/", ada.ID))
	require.NoError(t, err)
	assert.Len(t, adaKeys, 2)
	assert.Contains(t, adaKeys, last)
	assert.NotContains(t, adaKeys, fmt.Sprintf("backups/%d/20000101T000000Z-old.json", ada.ID))
	assert.NotContains(t, adaKeys, fmt.Sprintf("backups/%d/20010101T000000Z-older.json", ada.ID))
	assert.Contains(t, files.objects, bobRes.Key)
}
