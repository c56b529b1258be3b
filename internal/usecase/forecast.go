package usecase

import (
	"context"
	"math"
	"time"

	"TiltBoard/internal/domain/models"
	drepo "TiltBoard/internal/domain/repository"
	domsvc "TiltBoard/internal/domain/service"
	"TiltBoard/internal/model"
	applogger "TiltBoard/pkg/logger"
	"TiltBoard/pkg/util"
)

// Authoring constants carried from the original model. The deviation clamp
// and the width-based tilt application are hand-tuned values, not derived.
const (
	deviationEps   = 1e-9
	deviationClamp = 1.5

	tiltWidthFactor = 0.30 // tilt moves up to +-30% of the range width
	lowBoundShare   = 0.25 // lower bound moves a quarter as far as the upper

	rangeFloor = -0.5
	rangeCap   = 2.0

	momentumDays = 30
)

// Forecaster is the signal tilt calculator: it snapshots the macro signals,
// normalizes each against its trailing median, and tilts the authored base
// ranges per ETF and horizon.
type Forecaster struct {
	tables       *model.Tables
	market       *MarketData
	metrics      drepo.Metrics
	logger       *applogger.Logger
	medianWindow int
}

func NewForecaster(tables *model.Tables, market *MarketData, metrics drepo.Metrics, logger *applogger.Logger, medianWindow int) *Forecaster {
	if medianWindow <= 0 {
		medianWindow = 252
	}
	return &Forecaster{
		tables:       tables,
		market:       market,
		metrics:      metrics,
		logger:       logger,
		medianWindow: medianWindow,
	}
}

var _ domsvc.Forecaster = (*Forecaster)(nil)

// NormalizeDeviation maps (value, reference) to a bounded z-like score.
// A zero or missing reference yields zero.
func NormalizeDeviation(value, reference float64) float64 {
	if reference == 0 || math.IsNaN(value) || math.IsNaN(reference) {
		return 0
	}
	z := (value - reference) / (math.Abs(reference) + deviationEps)
	return util.Clamp(z, -deviationClamp, deviationClamp)
}

// Table computes the full tilted forecast table.
func (f *Forecaster) Table(ctx context.Context, opts models.ForecastOptions) (*models.ForecastTable, error) {
	start := time.Now()

	series, _, err := f.market.FetchAll(ctx, f.tables.AllSymbols(opts.Overrides))
	if err != nil {
		return nil, err
	}

	readings, skipped := f.readSignals(series)
	devByName := make(map[string]float64, len(readings))
	for _, r := range readings {
		devByName[r.Name] = r.Deviation
	}

	table := &models.ForecastTable{
		GeneratedAt:  time.Now().UTC(),
		BaseScale:    opts.BaseScale,
		TiltStrength: opts.TiltStrength,
		Signals:      readings,
		Skipped:      skipped,
	}

	for _, etf := range f.tables.Etfs {
		fc := f.forecastEtf(etf, opts, devByName, series)
		table.Etfs = append(table.Etfs, fc)
	}

	f.metrics.RecordForecast()
	f.metrics.RecordLatency("forecast_table", time.Since(start).Seconds())
	return table, nil
}

// Snapshot returns the current signal readings without forecasting.
func (f *Forecaster) Snapshot(ctx context.Context) ([]models.SignalReading, error) {
	symbols := make([]string, 0, len(f.tables.Signals))
	for _, s := range f.tables.Signals {
		symbols = append(symbols, s.Symbol)
	}
	series, _, err := f.market.FetchAll(ctx, symbols)
	if err != nil {
		return nil, err
	}
	readings, _ := f.readSignals(series)
	return readings, nil
}

// readSignals snapshots each declared signal: last value and trailing median,
// unit-scaled, with the normalized deviation. Missing data marks the reading
// not-OK (zero deviation) and records the skip.
func (f *Forecaster) readSignals(series map[string]*models.Series) ([]models.SignalReading, []string) {
	readings := make([]models.SignalReading, 0, len(f.tables.Signals))
	var skipped []string

	for _, sig := range f.tables.Signals {
		r := models.SignalReading{Name: sig.Name, Symbol: sig.Symbol}

		s, ok := series[sig.Symbol]
		if ok && !s.Empty() {
			value, haveValue := util.LastValid(s.Closes)
			median, haveMedian := util.TrailingMedian(s.Closes, f.medianWindow)
			if haveValue && haveMedian {
				scale := sig.UnitScale()
				r.Value = value * scale
				r.Median = median * scale
				r.Deviation = NormalizeDeviation(r.Value, r.Median)
				if chg, haveChg := util.PctChangeOverDays(s.Closes, momentumDays); haveChg {
					r.Momentum = chg
				}
				r.OK = true
				f.metrics.RecordSignal(sig.Name, r.Value, r.Median)
			}
		}
		if !r.OK {
			skipped = append(skipped, sig.Name)
			f.logger.Warn("signal skipped, no data", applogger.String("signal", sig.Name))
		}
		readings = append(readings, r)
	}
	return readings, skipped
}

// forecastEtf applies the composite tilt to one ETF's base ranges.
func (f *Forecaster) forecastEtf(etf model.Etf, opts models.ForecastOptions, devByName map[string]float64, series map[string]*models.Series) models.EtfForecast {
	fc := models.EtfForecast{
		Ticker:   etf.Ticker,
		Name:     etf.Name,
		Category: etf.Category,
		Symbol:   f.tables.EtfSymbol(etf, opts.Overrides),
		Ranges:   make(map[string]models.Range, len(etf.Base)),
		Grades:   make(map[string]string, len(etf.Base)),
	}

	if s, ok := series[fc.Symbol]; ok {
		if spot, haveSpot := util.LastValid(s.Closes); haveSpot {
			fc.SpotPrice = spot
		}
	}

	// Composite tilt: weighted sum of deviations, linear in tilt strength,
	// then squashed into [-1, +1].
	var sum float64
	var contributions []models.Contribution
	for _, sig := range f.tables.Signals {
		coef, relevant := etf.Sensitivities[sig.Name]
		if !relevant {
			continue
		}
		dev := devByName[sig.Name]
		weight := coef * dev
		sum += weight
		if opts.IncludeNotes {
			contributions = append(contributions, models.Contribution{
				Signal:      sig.Name,
				Sensitivity: coef,
				Deviation:   dev,
				Weight:      weight,
			})
		}
	}
	fc.RawTilt = opts.TiltStrength * sum
	fc.CompositeTilt = math.Tanh(fc.RawTilt)
	fc.Contributions = contributions

	for hz, base := range etf.Base {
		rng := TiltRange(base, opts.BaseScale, fc.CompositeTilt)
		fc.Ranges[hz] = rng
		fc.Grades[hz] = GradeRange(rng)
	}
	return fc
}

// TiltRange scales the base range and shifts it by the composite tilt. The
// tilt moves both bounds in proportion to the range width, the lower bound a
// quarter as far, then caps the result to sane cumulative returns.
func TiltRange(base models.Range, baseScale, tilt float64) models.Range {
	low := base.Low * baseScale
	high := base.High * baseScale

	width := high - low
	shift := width * tiltWidthFactor * tilt

	return models.Range{
		Low:  math.Max(rangeFloor, low+shift*lowBoundShare),
		High: math.Min(rangeCap, high+shift),
	}
}

// GradeRange classifies a range by its midpoint, mirroring the dashboard's
// traffic-light bands.
func GradeRange(r models.Range) string {
	mid := (r.Low + r.High) / 2
	switch {
	case mid >= 0.12:
		return "green"
	case mid >= 0.03:
		return "yellow"
	case mid >= 0:
		return "orange"
	default:
		return "red"
	}
}
