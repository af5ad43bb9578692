package entities

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// decodeUUIDList reads a JSON array of uuid strings; anything malformed
// (including individual elements) is dropped silently.
func decodeUUIDList(raw datatypes.JSON) []uuid.UUID {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]uuid.UUID, 0, len(items))
	for _, s := range items {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// EncodeUUIDList writes a JSON array of uuid strings.
func EncodeUUIDList(ids []uuid.UUID) datatypes.JSON {
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, id.String())
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// EncodeStringList writes a JSON array of strings (request attachments).
func EncodeStringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
