// Package repository persists the per-user application document that holds the sealed
// credentials. PostgreSQL stores it as jsonb and MySQL as JSON. GetData returns nil when
// the user has no document yet; UpsertField sets one top-level field and leaves the
// others to the store to preserve.
package repository

import "encoding/json"

func decodeDocument(raw []byte) (map[string]json.RawMessage, error) {
	if len(raw) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}
