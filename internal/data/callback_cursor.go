package data

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/readykit/report-api/internal/domain/model"
)

// Callback listing pages by keyset on (received_at, id) descending.
// The cursor token is the base64 JSON of the last row's key.
type callbackCursorPayload struct {
	ReceivedAt time.Time `json:"received_at"`
	ID         string    `json:"id"`
}

func encodeCallbackCursor(cur callbackCursorPayload) (string, error) {
	raw, err := json.Marshal(cur)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeCallbackCursor(token string) (callbackCursorPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return callbackCursorPayload{}, fmt.Errorf("decode cursor: %w", err)
	}
	var cur callbackCursorPayload
	if err := json.Unmarshal(raw, &cur); err != nil {
		return callbackCursorPayload{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if cur.ID == "" || cur.ReceivedAt.IsZero() {
		return callbackCursorPayload{}, errors.New("invalid cursor payload")
	}
	return cur, nil
}

func newCallbackCursor(cb *model.Callback) callbackCursorPayload {
	return callbackCursorPayload{ReceivedAt: cb.ReceivedAt, ID: cb.ID}
}
