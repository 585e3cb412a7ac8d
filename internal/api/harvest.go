package api

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"rankwatch/internal/domain"
)

// parseHarvest accepts either a flat {rank, category, sourceUrl, ...} object
// or a Firestore REST document whose values sit under fields.<name>.<type>Value.
func parseHarvest(body []byte) (domain.RankInput, error) {
	var in domain.RankInput
	if !gjson.ValidBytes(body) {
		return in, fmt.Errorf("%w: body is not valid JSON", domain.ErrInvalidManualInput)
	}
	root := gjson.ParseBytes(body)

	get := func(name string) gjson.Result {
		return root.Get(name)
	}
	if fields := root.Get("fields"); fields.IsObject() {
		get = func(name string) gjson.Result {
			return typedValue(fields.Get(name))
		}
	}

	if r := get("rank"); r.Exists() && r.Type != gjson.Null {
		rank := int(r.Int())
		in.Rank = &rank
	}
	in.Category = get("category").String()
	in.SourceURL = get("sourceUrl").String()
	in.ExtractedBy = get("extractedBy").String()

	for _, name := range []string{"timestamp", "lastUpdated"} {
		raw := get(name).String()
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return in, fmt.Errorf("%w: %s is not RFC 3339", domain.ErrInvalidManualInput, name)
		}
		in.Timestamp = &ts
		break
	}

	return in, nil
}

// typedValue unwraps {"integerValue": "47"} style values.
func typedValue(r gjson.Result) gjson.Result {
	var v gjson.Result
	r.ForEach(func(_, value gjson.Result) bool {
		v = value
		return false
	})
	return v
}
