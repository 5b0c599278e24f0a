package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomKeys(t *testing.T) {
	assert.Equal(t, "shop_9d0c84de-0a35-4a6a-8cbe-b0a05ac2f702", ShopRoom("9d0c84de-0a35-4a6a-8cbe-b0a05ac2f702"))
	assert.Equal(t, "printjob_42", JobRoom("42"))
}

func TestEnvelopeWireFormat(t *testing.T) {
	env := Envelope{
		Event:       "newPrintJob",
		Room:        ShopRoom("abc"),
		Data:        map[string]string{"tokenNumber": "PJ-1-2"},
		PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "newPrintJob", decoded["event"])
	assert.Equal(t, "shop_abc", decoded["room"])
	assert.Contains(t, decoded, "data")
	assert.Contains(t, decoded, "published_at")
}
