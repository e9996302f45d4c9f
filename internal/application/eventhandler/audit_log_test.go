package eventhandler

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/infrastructure/messaging"
	"github.com/careerhub/placement-hub/pkg/logger"
)

func TestAuditLog_WritesEveryEvent(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLog(logger.New(logger.Options{Output: &buf, Level: logger.LevelInfo, Format: "json"}))

	bus := messaging.NewInMemoryEventBus(messaging.DefaultInMemoryEventBusConfig())
	require.NoError(t, audit.Register(bus))

	require.NoError(t, bus.Publish(shared.NewApplicationEvent(shared.EventApplicationSubmitted, "APP0001", "U0000001A", "INT0001", "PENDING", "")))
	require.NoError(t, bus.Publish(shared.NewSlotsChangedEvent("INT0001", 1, 1, "FILLED", true, false)))

	assert.Equal(t, 1, audit.Count(shared.EventApplicationSubmitted))
	assert.Equal(t, 1, audit.Count(shared.EventSlotsChanged))
	assert.Equal(t, 0, audit.Count(shared.EventOfferAccepted))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "domain event", first["message"])
	assert.Equal(t, "application.submitted", first["event_type"])
	assert.Equal(t, "APP0001", first["aggregate_id"])
	assert.Equal(t, "U0000001A", first["student_id"])
	assert.Equal(t, "audit", first["component"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "internship filled", second["message"])
	assert.Equal(t, true, second["filled"])
}
