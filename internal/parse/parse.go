package parse

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/gradekit/gradekit/internal/models"
)

// Parse interprets a raw model reply as a grade record. The pipeline is
// sanitize, JSON extraction, then heuristic recovery; its contract is that
// it always returns a record and never panics outward. RawOutput is the
// unmodified input in every path.
func Parse(raw string) (rec *models.GradeRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = models.NewParseFailureRecord(raw, fmt.Errorf("%v", r))
		}
	}()

	cleaned := Sanitize(raw)

	if jsonText, ok := ExtractJSON(cleaned); ok {
		var obj map[string]any
		if err := json.Unmarshal([]byte(jsonText), &obj); err == nil {
			if decoded, err := decodeRecord(obj); err == nil {
				decoded.RawOutput = raw
				return decoded
			}
		}
		// A JSON object that does not decode as a grade is treated the
		// same as no JSON at all.
	}

	return ExtractHeuristic(cleaned, raw)
}

// decodeRecord maps a parsed JSON object onto a GradeRecord. Decoding is
// weakly typed so numeric strings and integers coerce to float64, the way
// models actually emit them.
func decodeRecord(obj map[string]any) (*models.GradeRecord, error) {
	rec := models.NewGradeRecord()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           rec,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(obj); err != nil {
		return nil, fmt.Errorf("decoding grade object: %w", err)
	}

	rec.Score = models.ClampScore(rec.Score)
	if rec.Improvements == nil {
		rec.Improvements = []string{}
	}
	if rec.Breakdown == nil {
		rec.Breakdown = map[string]any{}
	}
	return rec, nil
}
