package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
)

func TestSerializeToMessage(t *testing.T) {
	rec := domain.NormalizedRecord{
		Satellite: "G12",
		Time:      "2024-04-26 15:00:00",
		S4C:       0.55,
		Lat:       13.736789,
		Lon:       100.529935,
	}

	msg, err := serializeToMessage(rec)

	require.NoError(t, err)
	assert.Equal(t, []byte("G12"), msg.Key, "partitioning key is the satellite")

	var decoded domain.NormalizedRecord
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, rec, decoded)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "satellite", msg.Headers[0].Key)
	assert.Equal(t, []byte("G12"), msg.Headers[0].Value)
	assert.Equal(t, "observed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-04-26 15:00:00"), msg.Headers[1].Value)
}

func TestPublisherSkipsQuietBatches(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// No broker is reachable; a batch without candidates must not try to write.
	pub := NewPublisher([]string{"localhost:1"}, "scintillation-alerts", 0.4, logger)
	defer pub.Close()

	res := &pipeline.Result{Normalized: []domain.NormalizedRecord{
		{Satellite: "G01", Time: "2024-04-26 15:00:00", S4C: 0.1},
		{Satellite: "G02", Time: "2024-04-26 15:00:00", S4C: 0.39},
	}}

	err := pub.Deliver(context.Background(), res)

	assert.NoError(t, err)
}
