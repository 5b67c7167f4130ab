package contaovos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/config"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/logger"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

func testEntry() *logrus.Entry {
	return logrus.NewEntry(logger.Discard())
}

func sampleCollections() []models.Collection {
	code := models.ObsSeca
	return []models.Collection{
		{
			ID:              10,
			TrapID:          1,
			CollectedAt:     time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
			EggCount:        4,
			ReadingType:     models.FirstReading,
			ObservationCode: &code,
			Trap:            &models.Trap{ID: 1, Number: "OV-1", Address: "Rua A", MunicipalityID: 3},
		},
	}
}

func TestNew_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, New(config.ContaOvosConfig{}, nil, testEntry()))
}

func TestPushCollections(t *testing.T) {
	var got pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, collectionsPath, r.URL.Path)
		assert.Equal(t, "Bearer segredo", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recebidas":1}`))
	}))
	defer srv.Close()

	c := New(config.ContaOvosConfig{URL: srv.URL + "/", Token: "segredo", Timeout: time.Second}, time.UTC, testEntry())
	require.NotNil(t, c)
	require.NoError(t, c.PushCollections(context.Background(), sampleCollections()))

	require.Len(t, got.Coletas, 1)
	r := got.Coletas[0]
	assert.Equal(t, uint(10), r.ID)
	assert.Equal(t, "OV-1", r.TrapNumber)
	assert.Equal(t, "2024-03-08", r.CollectedAt)
	assert.Equal(t, "primeira", r.ReadingType)
	require.NotNil(t, r.ObservationCode)
	assert.Equal(t, "5", *r.ObservationCode)
}

func TestPushCollections_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"ovitrampa desconhecida"}`))
	}))
	defer srv.Close()

	c := New(config.ContaOvosConfig{URL: srv.URL}, time.UTC, testEntry())
	err := c.PushCollections(context.Background(), sampleCollections())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "ovitrampa desconhecida")
}

func TestPushCollections_IdempotencyKeyFollowsBatch(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(config.ContaOvosConfig{URL: srv.URL}, time.UTC, testEntry())
	batch := sampleCollections()
	more := append(sampleCollections(), models.Collection{ID: 11, TrapID: 1, ReadingType: models.SecondReading})
	reversed := []models.Collection{more[1], more[0]}

	ctx := context.Background()
	require.NoError(t, c.PushCollections(ctx, batch))
	require.NoError(t, c.PushCollections(ctx, batch))
	require.NoError(t, c.PushCollections(ctx, more))
	require.NoError(t, c.PushCollections(ctx, reversed))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, keys, 4)
	assert.Equal(t, keys[0], keys[1])
	assert.NotEqual(t, keys[0], keys[2])
	assert.Equal(t, keys[2], keys[3])
}

func TestPushCollections_DateInLocalZone(t *testing.T) {
	var got pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	brt := time.FixedZone("BRT", -3*60*60)
	c := New(config.ContaOvosConfig{URL: srv.URL}, brt, testEntry())
	late := sampleCollections()
	late[0].CollectedAt = time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC)
	require.NoError(t, c.PushCollections(context.Background(), late))

	require.Len(t, got.Coletas, 1)
	assert.Equal(t, "2024-03-15", got.Coletas[0].CollectedAt)
}
