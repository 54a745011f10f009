//go:build unit

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogSink_Record(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	entityID := uuid.New()
	actor := shared.Actor{UserID: uuid.New(), TenantID: uuid.New()}
	require.NoError(t, sink.Record(context.Background(), shared.EventReservationCancelled, entityID, actor))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	group, ok := line["audit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, shared.EventReservationCancelled, group["action"])
	assert.Equal(t, entityID.String(), group["entity_id"])
	assert.Equal(t, actor.TenantID.String(), group["tenant_id"])
}
