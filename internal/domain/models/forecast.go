package models

import "time"

// SignalReading is one macro signal snapshot: current value against its
// trailing 12-month median reference, with the normalized deviation.
type SignalReading struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Value     float64 `json:"value"`
	Median    float64 `json:"median"`
	Deviation float64 `json:"deviation"`
	Momentum  float64 `json:"momentum_30d"` // fractional change over the last 30 observations
	OK        bool    `json:"ok"`           // false when data was missing and the signal was skipped
}

// Contribution is one signal's share of an ETF's composite tilt.
type Contribution struct {
	Signal      string  `json:"signal"`
	Sensitivity float64 `json:"sensitivity"`
	Deviation   float64 `json:"deviation"`
	Weight      float64 `json:"weight"` // sensitivity x deviation
}

// Range is a cumulative expected return interval for one horizon.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// EtfForecast is the tilted forecast for a single ETF across all horizons.
type EtfForecast struct {
	Ticker        string            `json:"ticker"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Symbol        string            `json:"symbol"` // provider symbol actually used (after overrides)
	SpotPrice     float64           `json:"spot_price,omitempty"`
	RawTilt       float64           `json:"raw_tilt"`       // tilt_strength x sum of weights, pre-squash
	CompositeTilt float64           `json:"composite_tilt"` // squashed into [-1, +1]
	Ranges        map[string]Range  `json:"ranges"`         // keyed by horizon
	Grades        map[string]string `json:"grades"`         // per-horizon color grade
	Contributions []Contribution    `json:"contributions,omitempty"`
}

// ForecastTable is the full dashboard payload: signal snapshot plus the
// tilted forecast per ETF.
type ForecastTable struct {
	GeneratedAt  time.Time       `json:"generated_at"`
	BaseScale    float64         `json:"base_scale"`
	TiltStrength float64         `json:"tilt_strength"`
	Signals      []SignalReading `json:"signals"`
	Etfs         []EtfForecast   `json:"etfs"`
	Skipped      []string        `json:"skipped,omitempty"` // signals without data this round
}

// ForecastOptions carries the per-request knobs.
type ForecastOptions struct {
	BaseScale    float64
	TiltStrength float64
	Overrides    map[string]string // ETF ticker -> provider symbol override
	IncludeNotes bool
}
