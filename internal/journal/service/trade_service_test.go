package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/journal/storage"
	"trading-journal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupEnv creates an isolated in-memory store and a temp uploads directory.
func setupEnv(t *testing.T) (repository.TradeRepository, *storage.AttachmentStore) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entity.Trade{}))

	attachments, err := storage.NewAttachmentStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return repository.NewTradeRepository(db), attachments
}

func setupTradeService(t *testing.T) (TradeService, *storage.AttachmentStore) {
	repo, attachments := setupEnv(t)
	return NewTradeService(repo, attachments, logger.NewNop()), attachments
}

func f(v float64) *float64 { return &v }

func validCreateRequest() *dto.CreateTradeRequest {
	return &dto.CreateTradeRequest{
		Date:         "2024-01-15",
		Pair:         "EURUSD",
		Direction:    "buy",
		EntryPrice:   f(1.0850),
		ExitPrice:    f(1.0920),
		StopLoss:     f(1.0800),
		RiskAmount:   f(100),
		ResultAmount: f(150),
		Notes:        "breakout entry",
	}
}

func patch(t *testing.T, body string) *dto.UpdateTradeRequest {
	var req dto.UpdateTradeRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func upload(content, filename string) *storage.Upload {
	return &storage.Upload{Reader: strings.NewReader(content), Filename: filename}
}

func TestTradeService_Create(t *testing.T) {
	svc, _ := setupTradeService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
	assert.Equal(t, "EURUSD", first.Pair)
	assert.Equal(t, 1.0800, *first.StopLoss)
	assert.Nil(t, first.TakeProfit)
	assert.Nil(t, first.ScreenshotURL)

	second, err := svc.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTradeService_Create_Validation(t *testing.T) {
	svc, _ := setupTradeService(t)
	ctx := context.Background()

	cases := map[string]func(*dto.CreateTradeRequest){
		"missing date":        func(r *dto.CreateTradeRequest) { r.Date = "" },
		"missing pair":        func(r *dto.CreateTradeRequest) { r.Pair = "" },
		"bad direction":       func(r *dto.CreateTradeRequest) { r.Direction = "long" },
		"upper direction":     func(r *dto.CreateTradeRequest) { r.Direction = "BUY" },
		"missing entry price": func(r *dto.CreateTradeRequest) { r.EntryPrice = nil },
		"missing exit price":  func(r *dto.CreateTradeRequest) { r.ExitPrice = nil },
		"missing risk":        func(r *dto.CreateTradeRequest) { r.RiskAmount = nil },
		"missing result":      func(r *dto.CreateTradeRequest) { r.ResultAmount = nil },
		"negative entry":      func(r *dto.CreateTradeRequest) { r.EntryPrice = f(-1) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCreateRequest()
			mutate(req)
			_, err := svc.Create(ctx, req, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Breakeven result is valid input, not a missing field.
	req := validCreateRequest()
	req.ResultAmount = f(0)
	_, err := svc.Create(ctx, req, nil)
	assert.NoError(t, err)
}

func TestTradeService_Get_NotFound(t *testing.T) {
	svc, _ := setupTradeService(t)

	_, err := svc.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestTradeService_Update_PartialLeavesOtherFieldsAlone(t *testing.T) {
	svc, _ := setupTradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	updated, err := svc.Update(ctx, created.ID, patch(t, `{"notes": "revised"}`), nil)
	require.NoError(t, err)

	assert.Equal(t, "revised", updated.Notes)
	assert.Equal(t, created.Pair, updated.Pair)
	assert.Equal(t, created.EntryPrice, updated.EntryPrice)
	assert.Equal(t, *created.StopLoss, *updated.StopLoss)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestTradeService_Update_NullClearsOptionalField(t *testing.T) {
	svc, _ := setupTradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)
	require.NotNil(t, created.StopLoss)

	updated, err := svc.Update(ctx, created.ID, patch(t, `{"stop_loss": null, "take_profit": 1.1000}`), nil)
	require.NoError(t, err)
	assert.Nil(t, updated.StopLoss)
	require.NotNil(t, updated.TakeProfit)
	assert.Equal(t, 1.1000, *updated.TakeProfit)
}

func TestTradeService_Update_RequiredFieldCannotBeCleared(t *testing.T) {
	svc, _ := setupTradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)

	for _, body := range []string{
		`{"date": null}`,
		`{"pair": ""}`,
		`{"direction": "hold"}`,
		`{"entry_price": null}`,
		`{"result_amount": null}`,
	} {
		_, err := svc.Update(ctx, created.ID, patch(t, body), nil)
		assert.ErrorIs(t, err, ErrValidation, "patch %s", body)
	}
}

func TestTradeService_Update_EmptyPatchIsNoOp(t *testing.T) {
	svc, _ := setupTradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	unchanged, err := svc.Update(ctx, created.ID, patch(t, `{}`), nil)
	require.NoError(t, err)
	assert.True(t, unchanged.UpdatedAt.Equal(created.UpdatedAt))
	assert.Equal(t, created.Notes, unchanged.Notes)
}

func TestTradeService_Update_NotFound(t *testing.T) {
	svc, _ := setupTradeService(t)

	_, err := svc.Update(context.Background(), "no-such-id", patch(t, `{"notes":"x"}`), nil)
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestTradeService_AttachmentLifecycle(t *testing.T) {
	svc, attachments := setupTradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest(), upload("img-1", "entry.png"))
	require.NoError(t, err)
	require.NotNil(t, created.ScreenshotURL)
	assert.True(t, attachments.Exists(*created.ScreenshotURL))

	// Replacing leaves exactly one reachable file; the old one is removed.
	time.Sleep(10 * time.Millisecond)
	updated, err := svc.Update(ctx, created.ID, patch(t, `{}`), upload("img-2", "exit.png"))
	require.NoError(t, err)
	require.NotNil(t, updated.ScreenshotURL)
	assert.NotEqual(t, *created.ScreenshotURL, *updated.ScreenshotURL)
	assert.False(t, attachments.Exists(*created.ScreenshotURL))
	assert.True(t, attachments.Exists(*updated.ScreenshotURL))

	files, err := attachments.List()
	require.NoError(t, err)
	assert.Len(t, files, 1)

	// Replacing the attachment alone still refreshes updated_at.
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	// Deleting the trade deletes the file with it.
	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.False(t, attachments.Exists(*updated.ScreenshotURL))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestTradeService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTradeService(t)

	err := svc.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrTradeNotFound)
}
