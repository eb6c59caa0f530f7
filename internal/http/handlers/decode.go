package handlers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
)

var errEmptyBody = errors.New("request body is empty")

func decodeOutcomes(raw []byte) ([]preferences.Outcome, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errEmptyBody
	}
	if raw[0] == '[' {
		var out []preferences.Outcome
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var req outcomesRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return req.Outcomes, nil
}
