package config

// This file loads the static property table.  Each managed property carries
// the credential pair for the upstream merchant API (uif/uuid cookies), the
// numeric qid that identifies the hotel upstream, and the Telegram group
// that receives booking requests for it.  The table is immutable after
// load; adding a property is a config change plus restart.

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

type propertyEntry struct {
	UIF    string `json:"uif"`
	UUID   string `json:"uuid"`
	QID    int64  `json:"qid"`
	ChatID int64  `json:"chat_id"`
}

// LoadProperties reads the property table from a JSON file keyed by property
// code, e.g. {"HYD2857": {"uif": "...", "uuid": "...", "qid": 259690,
// "chat_id": -5187550502}}.  Entries with a zero qid are rejected so that a
// half-filled table fails fast instead of producing silent upstream 401s.
func LoadProperties(path string) (map[string]model.Property, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties file: %w", err)
	}
	var entries map[string]propertyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse properties file: %w", err)
	}
	out := make(map[string]model.Property, len(entries))
	for code, e := range entries {
		if e.QID == 0 {
			return nil, fmt.Errorf("property %s: missing qid", code)
		}
		out[code] = model.Property{
			Code:   code,
			UIF:    e.UIF,
			UUID:   e.UUID,
			QID:    e.QID,
			ChatID: e.ChatID,
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("properties file %s is empty", path)
	}
	return out, nil
}
