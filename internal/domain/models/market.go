package models

import (
	"encoding/json"
	"math"
)

// Series holds the daily close history for one provider symbol.
// Missing observations are NaN; gaps are never interpolated.
type Series struct {
	Symbol     string
	Timestamps []int64
	Closes     []float64
}

// Empty reports whether the series holds no observations.
func (s *Series) Empty() bool {
	return s == nil || len(s.Closes) == 0
}

// seriesJSON is the wire/cache form: NaN gaps become nulls, which
// encoding/json can represent.
type seriesJSON struct {
	Symbol     string     `json:"symbol"`
	Timestamps []int64    `json:"timestamps"`
	Closes     []*float64 `json:"closes"`
}

func (s Series) MarshalJSON() ([]byte, error) {
	out := seriesJSON{
		Symbol:     s.Symbol,
		Timestamps: s.Timestamps,
		Closes:     make([]*float64, len(s.Closes)),
	}
	for i := range s.Closes {
		if !math.IsNaN(s.Closes[i]) {
			v := s.Closes[i]
			out.Closes[i] = &v
		}
	}
	return json.Marshal(out)
}

func (s *Series) UnmarshalJSON(b []byte) error {
	var in seriesJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	s.Symbol = in.Symbol
	s.Timestamps = in.Timestamps
	s.Closes = make([]float64, len(in.Closes))
	for i, v := range in.Closes {
		if v == nil {
			s.Closes[i] = math.NaN()
		} else {
			s.Closes[i] = *v
		}
	}
	return nil
}
