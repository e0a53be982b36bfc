package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
)

func TestNutritionCRUD(t *testing.T) {
	env := newTestEnv(t)

	items, err := env.store.nutrition.ListItems(env.ctx)
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.Equal(t, "n_6", items[0].ID)

	env.clock.Advance(time.Minute)
	created, err := env.store.nutrition.CreateItem(env.ctx, &dto.NutritionItemRequest{
		Title: "橙汁", Summary: "维C", Recipe: json.RawMessage(`{"fruits":"橙子 3 个"}`),
	})
	require.NoError(t, err)

	items, err = env.store.nutrition.ListItems(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, items[0].ID)

	summary := "维C 充足"
	updated, err := env.store.nutrition.UpdateItem(env.ctx, created.ID, &dto.UpdateNutritionItemRequest{Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, "橙汁", updated.Title)
	assert.Equal(t, summary, updated.Summary)

	got, err := env.store.nutrition.GetByID(env.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, summary, got.Summary)
	assert.JSONEq(t, `{"fruits":"橙子 3 个"}`, string(got.Recipe))

	require.NoError(t, env.store.nutrition.DeleteItem(env.ctx, created.ID))
	_, err = env.store.nutrition.GetByID(env.ctx, created.ID)
	assert.ErrorIs(t, err, myErrors.ErrNotFound)

	_, err = env.store.nutrition.UpdateItem(env.ctx, created.ID, &dto.UpdateNutritionItemRequest{Summary: &summary})
	assert.ErrorIs(t, err, myErrors.ErrNotFound)

	_, err = env.store.nutrition.CreateItem(env.ctx, &dto.NutritionItemRequest{})
	assert.ErrorIs(t, err, myErrors.ErrValidation)
}

func TestProductionHistory(t *testing.T) {
	env := newTestEnv(t)

	record, err := env.store.production.AddHistoryRecord(env.ctx, &dto.AddHistoryRecordRequest{
		UserID:     "u_user",
		Mode:       constant.ModeCanned,
		FruitCount: 9,
		Preprocess: []entities.FruitPreprocess{{ID: 7, Peeling: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, constant.MaxFruitCount, record.FruitCount)
	require.Len(t, record.Preprocess, constant.MaxFruitCount)
	assert.Equal(t, entities.FruitPreprocess{ID: 1, Peeling: true, Cutting: true}, record.Preprocess[0])
	for i, p := range record.Preprocess {
		assert.Equal(t, i+1, p.ID)
		assert.True(t, p.Cutting)
	}

	low, err := env.store.production.AddHistoryRecord(env.ctx, &dto.AddHistoryRecordRequest{UserID: "u_admin", Mode: constant.ModeCut, FruitCount: 0})
	require.NoError(t, err)
	assert.Equal(t, constant.MinFruitCount, low.FruitCount)

	history, err := env.store.production.GetHistoryByUser(env.ctx, "u_user")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, record.ID, history[0].ID)
	assert.Equal(t, "h_1", history[1].ID)

	_, err = env.store.production.AddHistoryRecord(env.ctx, &dto.AddHistoryRecordRequest{UserID: "u_user", Mode: "smoothie"})
	assert.ErrorIs(t, err, myErrors.ErrValidation)
}
