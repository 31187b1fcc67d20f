package forecaster

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/tunogya/lagcast/pkg/feature"
	"github.com/tunogya/lagcast/pkg/lags"
	"github.com/tunogya/lagcast/pkg/model"
	"github.com/tunogya/lagcast/pkg/window"
)

var (
	// ErrShapeMismatch is returned when levels or lags disagree with the model shapes
	ErrShapeMismatch = errors.New("configuration does not match model shape")

	// ErrUnknownLevel is returned when a level has no series
	ErrUnknownLevel = errors.New("level not found in series")

	// ErrSeriesLength is returned when series differ in length
	ErrSeriesLength = errors.New("all series must have the same length")
)

// Forecaster prepares training data for a recurrent model that reads one
// value per lag of every series and predicts Steps values of each level
type Forecaster struct {
	Model  Model
	Levels []string
	Lags   lags.Spec
	MaxLag int
	Steps  int

	scalerFactory feature.Factory
	scalers       map[string]feature.Scaler
	logger        *zap.Logger
}

// Option configures a Forecaster
type Option func(*Forecaster)

// WithLags overrides the lags derived from the model input shape
func WithLags(spec lags.Spec) Option {
	return func(f *Forecaster) {
		f.Lags = spec
	}
}

// WithScaler sets the scaler fitted on each series; nil disables scaling
func WithScaler(factory feature.Factory) Option {
	return func(f *Forecaster) {
		f.scalerFactory = factory
	}
}

// WithLogger sets the logger used for dataset diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(f *Forecaster) {
		f.logger = logger
	}
}

// New creates a forecaster around model predicting levels
func New(m Model, levels []string, opts ...Option) (*Forecaster, error) {
	inputLags, _ := m.InputShape()
	steps, nLevels := m.OutputShape()

	if len(levels) != nLevels {
		return nil, fmt.Errorf("%d levels for a model predicting %d: %w", len(levels), nLevels, ErrShapeMismatch)
	}
	if steps < 1 {
		return nil, fmt.Errorf("model output steps %d: %w", steps, window.ErrInvalidSteps)
	}

	f := &Forecaster{
		Model:         m,
		Levels:        levels,
		Steps:         steps,
		scalerFactory: feature.NewMinMaxScaler,
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.Lags.IsZero() {
		spec, err := lags.Dense(inputLags)
		if err != nil {
			return nil, fmt.Errorf("model input shape: %w", err)
		}
		f.Lags = spec
	}

	// the model reads one value per lag; MaxLag only bounds the history needed
	if f.Lags.Len() != inputLags {
		return nil, fmt.Errorf("%d lags for a model reading %d values: %w", f.Lags.Len(), inputLags, ErrShapeMismatch)
	}
	f.MaxLag = f.Lags.Max()

	return f, nil
}

// CreateLags builds the lag and target matrices of y with the forecaster's
// max lag and steps. The lag columns follow spec, which callers usually pass
// as f.Lags.
func (f *Forecaster) CreateLags(y []float64, spec lags.Spec) (*mat.Dense, *mat.Dense, error) {
	if spec.IsZero() {
		return nil, nil, fmt.Errorf("lag specification not set: %w", window.ErrInvalidLags)
	}
	return window.CreateLags(y, spec.Values(), f.MaxLag, f.Steps)
}

// TrainingSet is the supervised data for all series. X holds one lag matrix
// per input series and Y one target matrix per level, all sharing the same rows.
type TrainingSet struct {
	Series  []string
	Levels  []string
	X       map[string]*mat.Dense
	Y       map[string]*mat.Dense
	Origins []int
}

// Rows returns the number of training rows
func (ts *TrainingSet) Rows() int {
	return len(ts.Origins)
}

// CreateTrainXY scales every series and builds its lag matrix; targets are
// kept for the forecaster's levels
func (f *Forecaster) CreateTrainXY(series map[string][]float64) (*TrainingSet, error) {
	names, n, err := f.checkSeries(series)
	if err != nil {
		return nil, err
	}

	ts := &TrainingSet{
		Series: names,
		Levels: f.Levels,
		X:      make(map[string]*mat.Dense, len(names)),
		Y:      make(map[string]*mat.Dense, len(f.Levels)),
	}
	f.scalers = make(map[string]feature.Scaler, len(names))

	isLevel := make(map[string]bool, len(f.Levels))
	for _, l := range f.Levels {
		isLevel[l] = true
	}

	for _, name := range names {
		values, err := f.fitTransform(name, series[name])
		if err != nil {
			return nil, err
		}

		x, y, err := f.CreateLags(values, f.Lags)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", name, err)
		}

		ts.X[name] = x
		if isLevel[name] {
			ts.Y[name] = y
		}
	}

	rows := window.NumOrigins(n, f.MaxLag, f.Steps)
	ts.Origins = make([]int, rows)
	for i := range ts.Origins {
		ts.Origins[i] = f.MaxLag + i - 1
	}

	f.logger.Debug("created training set",
		zap.Int("rows", rows),
		zap.Int("series", len(names)),
		zap.Int("levels", len(f.Levels)),
		zap.String("lags", f.Lags.String()),
		zap.Int("steps", f.Steps),
	)

	return ts, nil
}

// Dataset builds the unscaled lag and target matrices of a single level
func (f *Forecaster) Dataset(level string, y []float64) (*model.Dataset, error) {
	x, targets, err := f.CreateLags(y, f.Lags)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", level, err)
	}

	return &model.Dataset{
		Level:  level,
		Lags:   f.Lags.Values(),
		MaxLag: f.MaxLag,
		Steps:  f.Steps,
		X:      x,
		Y:      targets,
	}, nil
}

// Samples flattens the dataset of a level into storable samples
func (f *Forecaster) Samples(level string, y []float64, timestamps []time.Time) ([]*model.Sample, error) {
	d, err := f.Dataset(level, y)
	if err != nil {
		return nil, err
	}
	return d.Samples(timestamps), nil
}

// InverseTransform maps scaled predictions of level back to original units
func (f *Forecaster) InverseTransform(level string, values []float64) ([]float64, error) {
	if f.scalerFactory == nil {
		out := make([]float64, len(values))
		copy(out, values)
		return out, nil
	}

	s, ok := f.scalers[level]
	if !ok {
		return nil, fmt.Errorf("no fitted scaler for %q: %w", level, feature.ErrNotFitted)
	}
	return s.InverseTransform(values)
}

// checkSeries returns the sorted series names and their common length
func (f *Forecaster) checkSeries(series map[string][]float64) ([]string, int, error) {
	if len(series) == 0 {
		return nil, 0, fmt.Errorf("no series given: %w", ErrShapeMismatch)
	}
	for _, level := range f.Levels {
		if _, ok := series[level]; !ok {
			return nil, 0, fmt.Errorf("level %q: %w", level, ErrUnknownLevel)
		}
	}

	_, nSeries := f.Model.InputShape()
	if len(series) != nSeries {
		return nil, 0, fmt.Errorf("%d series for a model reading %d: %w", len(series), nSeries, ErrShapeMismatch)
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	n := len(series[names[0]])
	for _, name := range names[1:] {
		if len(series[name]) != n {
			return nil, 0, fmt.Errorf("series %q has %d values, expected %d: %w",
				name, len(series[name]), n, ErrSeriesLength)
		}
	}

	return names, n, nil
}

func (f *Forecaster) fitTransform(name string, values []float64) ([]float64, error) {
	if f.scalerFactory == nil {
		return values, nil
	}

	s := f.scalerFactory()
	if err := s.Fit(values); err != nil {
		return nil, fmt.Errorf("series %q: %w", name, err)
	}
	f.scalers[name] = s

	return s.Transform(values)
}
