package window

import (
	"fmt"

	"github.com/tunogya/lagcast/pkg/lags"
	"github.com/tunogya/lagcast/pkg/model"
)

// Builder turns a stream of observations into samples, one per time origin
type Builder struct {
	Level  string
	Lags   []int
	MaxLag int
	Steps  int
	Stride int // origins between emitted samples

	buffer    *RingBuffer
	pushed    int  // observations seen since the last reset
	strideCnt int  // counter for stride-based output
	warmedUp  bool // whether the buffer has been filled once
}

// Config holds configuration for the streaming builder
type Config struct {
	Level  string
	Lags   lags.Spec
	Steps  int
	Stride int // defaults to 1
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig(level string) Config {
	spec, _ := lags.Dense(6)
	return Config{
		Level:  level,
		Lags:   spec,
		Steps:  3,
		Stride: 1,
	}
}

// NewBuilder creates a streaming builder
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.Lags.IsZero() {
		return nil, fmt.Errorf("lag specification not set: %w", ErrInvalidLags)
	}
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("steps %d: %w", cfg.Steps, ErrInvalidSteps)
	}

	stride := cfg.Stride
	if stride <= 0 {
		stride = 1
	}

	maxLag := cfg.Lags.Max()
	return &Builder{
		Level:  cfg.Level,
		Lags:   cfg.Lags.Values(),
		MaxLag: maxLag,
		Steps:  cfg.Steps,
		Stride: stride,
		buffer: NewRingBuffer(maxLag + cfg.Steps),
	}, nil
}

// Push adds a new observation and potentially produces a sample.
// The sample covers the last MaxLag+Steps observations: its inputs are the
// first MaxLag of them and its targets the trailing Steps.
func (b *Builder) Push(o model.Observation) (*model.Sample, bool) {
	b.buffer.Push(o)
	b.pushed++
	b.strideCnt++

	if !b.warmedUp && b.buffer.IsFull() {
		b.warmedUp = true
		b.strideCnt = b.Stride // force first output after warmup
	}

	if !b.warmedUp || b.strideCnt < b.Stride {
		return nil, false
	}
	b.strideCnt = 0

	inputs := make([]float64, len(b.Lags))
	for j, lag := range b.Lags {
		inputs[j] = b.buffer.At(b.MaxLag - lag).Value
	}

	targets := make([]float64, b.Steps)
	for h := 0; h < b.Steps; h++ {
		targets[h] = b.buffer.At(b.MaxLag + h).Value
	}

	lagsCopy := make([]int, len(b.Lags))
	copy(lagsCopy, b.Lags)

	origin := b.pushed - b.Steps - 1
	tOrigin := b.buffer.At(b.MaxLag - 1).Timestamp

	return model.NewSample(b.Level, origin, tOrigin, lagsCopy, inputs, targets), true
}

// Reset clears the builder state
func (b *Builder) Reset() {
	b.buffer.Clear()
	b.pushed = 0
	b.strideCnt = 0
	b.warmedUp = false
}

// IsWarmedUp returns true once enough observations were seen for a sample
func (b *Builder) IsWarmedUp() bool {
	return b.warmedUp
}

// CurrentSize returns the current number of observations in the buffer
func (b *Builder) CurrentSize() int {
	return b.buffer.Size()
}

// ProcessObservations processes a batch of observations and returns all produced samples
func (b *Builder) ProcessObservations(obs []model.Observation) []*model.Sample {
	var samples []*model.Sample

	for _, o := range obs {
		if s, ok := b.Push(o); ok {
			samples = append(samples, s)
		}
	}

	return samples
}
