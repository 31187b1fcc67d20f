package window

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tunogya/lagcast/pkg/lags"
)

// NumOrigins returns how many time origins a series of length n yields
func NumOrigins(n, maxLag, steps int) int {
	return n - maxLag - (steps - 1)
}

// CreateLags builds the lag matrix X and the target matrix Y for y.
//
// X has one row per time origin and one column per lag; column j of row i
// holds y[maxLag+i-lags[j]]. Y has one row per time origin and one column
// per step; column h of row i holds y[maxLag+i+h]. Lag columns follow the
// order of lags, so gaps such as [1, 5] give exactly two columns.
//
// maxLag is normally max(lags) but is owned by the caller so a forecaster
// can build matrices aligned with its configured window.
func CreateLags(y []float64, lagValues []int, maxLag, steps int) (*mat.Dense, *mat.Dense, error) {
	if steps < 1 {
		return nil, nil, fmt.Errorf("steps %d: %w", steps, ErrInvalidSteps)
	}
	if len(lagValues) == 0 {
		return nil, nil, fmt.Errorf("empty lag list: %w", ErrInvalidLags)
	}
	for _, lag := range lagValues {
		if lag < 1 || lag > maxLag {
			return nil, nil, fmt.Errorf("lag %d outside [1, %d]: %w", lag, maxLag, ErrInvalidLags)
		}
	}

	rows := NumOrigins(len(y), maxLag, steps)
	if rows <= 0 {
		return nil, nil, &InsufficientLengthError{
			MaxLag: maxLag,
			Bound:  len(y) - (steps - 1),
		}
	}

	x := mat.NewDense(rows, len(lagValues), nil)
	for j, lag := range lagValues {
		x.SetCol(j, y[maxLag-lag:maxLag-lag+rows])
	}

	targets := mat.NewDense(rows, steps, nil)
	for h := 0; h < steps; h++ {
		targets.SetCol(h, y[maxLag+h:maxLag+h+rows])
	}

	return x, targets, nil
}

// CreateLagsFromSpec normalizes spec and builds the matrices with
// maxLag = spec.Max()
func CreateLagsFromSpec(y []float64, spec lags.Spec, steps int) (*mat.Dense, *mat.Dense, error) {
	if spec.IsZero() {
		return nil, nil, fmt.Errorf("lag specification not set: %w", ErrInvalidLags)
	}
	return CreateLags(y, spec.Values(), spec.Max(), steps)
}

// LatestInputs returns the lag row whose time origin is the last value of y,
// the window a trained model reads to forecast the next steps
func LatestInputs(y []float64, lagValues []int) ([]float64, error) {
	if len(lagValues) == 0 {
		return nil, fmt.Errorf("empty lag list: %w", ErrInvalidLags)
	}

	inputs := make([]float64, len(lagValues))
	last := len(y) - 1
	for j, lag := range lagValues {
		if lag < 1 {
			return nil, fmt.Errorf("lag %d: %w", lag, ErrInvalidLags)
		}
		if lag > len(y) {
			return nil, &InsufficientLengthError{MaxLag: lag, Bound: len(y) + 1}
		}
		inputs[j] = y[last-lag+1]
	}
	return inputs, nil
}
