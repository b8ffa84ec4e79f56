package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PendingItem is one entry of an account's pending queue. An entry with a
// product ID is a scheduled item; an entry without one is a placeholder slot
// reserved by the dashboard and ignored by mode selection.
type PendingItem struct {
	ProductID   string    `json:"product_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Scheduled reports whether the entry references a concrete catalog item.
func (p PendingItem) Scheduled() bool { return p.ProductID != "" }

// DeployedItem is one well-formed entry of an account's deployed queue.
type DeployedItem struct {
	ID         string    `json:"id"`
	DeployedAt time.Time `json:"deployed_at"`
}

// DecodePendingQueue parses the pending queue column. An empty or
// unparseable column decodes to an empty queue; entries that are not objects
// are dropped.
func DecodePendingQueue(raw string) []PendingItem {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawItems); err != nil {
		return nil
	}

	items := make([]PendingItem, 0, len(rawItems))
	for _, r := range rawItems {
		var item PendingItem
		if err := json.Unmarshal(r, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

// EncodePendingQueue serializes a pending queue for persistence.
func EncodePendingQueue(items []PendingItem) string {
	if items == nil {
		items = []PendingItem{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// SanitizeDeployedQueue normalizes the raw deployed queue column into a
// clean typed list. Entries that are null, not objects, or missing an id are
// dropped; surviving ids are coerced to strings. The function is pure and
// idempotent: sanitizing an already-clean queue is a no-op.
func SanitizeDeployedQueue(raw string) []DeployedItem {
	items := []DeployedItem{}
	if strings.TrimSpace(raw) == "" {
		return items
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var rawItems []interface{}
	if err := dec.Decode(&rawItems); err != nil {
		return items
	}

	for _, entry := range rawItems {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		id, ok := coerceID(obj["id"])
		if !ok {
			continue
		}

		item := DeployedItem{ID: id}
		if s, ok := obj["deployed_at"].(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				item.DeployedAt = t
			}
		}
		items = append(items, item)
	}
	return items
}

// coerceID turns a raw id value into a string. Null, missing and composite
// values are rejected.
func coerceID(v interface{}) (string, bool) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case json.Number:
		return id.String(), true
	default:
		return "", false
	}
}

// EncodeDeployedQueue serializes a deployed queue for persistence.
func EncodeDeployedQueue(items []DeployedItem) string {
	if items == nil {
		items = []DeployedItem{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}
