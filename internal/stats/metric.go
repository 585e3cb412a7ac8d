package stats

import (
	"encoding/json"
	"strconv"
)

// Metric is an integer statistic that may be unavailable. The zero value is
// unavailable.
type Metric struct {
	Value int
	Valid bool
}

func Some(v int) Metric {
	return Metric{Value: v, Valid: true}
}

func (m Metric) String() string {
	if !m.Valid {
		return "-"
	}
	return strconv.Itoa(m.Value)
}

// Signed formats a change value with an explicit sign, e.g. "+3" or "-2".
func (m Metric) Signed() string {
	if !m.Valid {
		return "-"
	}
	if m.Value > 0 {
		return "+" + strconv.Itoa(m.Value)
	}
	return strconv.Itoa(m.Value)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}
