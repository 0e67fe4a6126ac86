// internal/nlp/cache_test.go
package nlp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"workorder-assistant/internal/common/database"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubResolver struct {
	calls  int
	result *models.ParsedQuery
	err    error
}

func (s *stubResolver) Resolve(ctx context.Context, text string) (*models.ParsedQuery, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// ==========================
// Cache Tests
// ==========================

func TestCachedResolver_Miss_PopulatesCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	parsed := &models.ParsedQuery{
		Intent:       models.IntentTimeTaken,
		Entities:     map[string]string{"wo_ref_no": "WO/2024/0001"},
		OriginalText: "how long did WO/2024/0001 take",
		Confidence:   0.91,
	}
	stub := &stubResolver{result: parsed}

	key := cacheKey("how long did WO/2024/0001 take")
	data, err := json.Marshal(parsed)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, string(data), 5*time.Minute).SetVal("OK")

	cached := NewCachedResolver(stub, &database.RedisClient{Client: db}, 5*time.Minute, logger.NewNoOpLogger())

	got, err := cached.Resolve(context.Background(), "how long did WO/2024/0001 take")

	require.NoError(t, err)
	assert.Equal(t, parsed.Intent, got.Intent)
	assert.Equal(t, 1, stub.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedResolver_Hit_SkipsModel(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	parsed := &models.ParsedQuery{
		Intent:       models.IntentWorkOrderPapers,
		Entities:     map[string]string{},
		OriginalText: "documents for WO/2024/0002",
		Confidence:   0.88,
	}
	data, err := json.Marshal(parsed)
	require.NoError(t, err)

	mock.ExpectGet(cacheKey("documents for WO/2024/0002")).SetVal(string(data))

	stub := &stubResolver{result: nil}
	cached := NewCachedResolver(stub, &database.RedisClient{Client: db}, 5*time.Minute, logger.NewNoOpLogger())

	got, err := cached.Resolve(context.Background(), "documents for WO/2024/0002")

	require.NoError(t, err)
	assert.Equal(t, models.IntentWorkOrderPapers, got.Intent)
	assert.Equal(t, 0, stub.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedResolver_KeyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, cacheKey("Show WO/2024/0042"), cacheKey("show wo/2024/0042  "))
}

func TestCachedResolver_CorruptEntryFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	parsed := &models.ParsedQuery{
		Intent:       models.IntentGetWorkOrders,
		Entities:     map[string]string{},
		OriginalText: "list work orders",
		Confidence:   0.9,
	}
	stub := &stubResolver{result: parsed}

	key := cacheKey("list work orders")
	data, err := json.Marshal(parsed)
	require.NoError(t, err)

	mock.ExpectGet(key).SetVal("{not json")
	mock.ExpectDel(key).SetVal(1)
	mock.ExpectSet(key, string(data), time.Minute).SetVal("OK")

	cached := NewCachedResolver(stub, &database.RedisClient{Client: db}, time.Minute, logger.NewNoOpLogger())

	got, err := cached.Resolve(context.Background(), "list work orders")

	require.NoError(t, err)
	assert.Equal(t, models.IntentGetWorkOrders, got.Intent)
	assert.Equal(t, 1, stub.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
