package forecaster

// Model is the compiled network a forecaster wraps. Only its shapes matter
// here: the number of lag values read per series and number of series, and the output horizon
// and number of predicted levels.
type Model interface {
	InputShape() (lags, series int)
	OutputShape() (steps, levels int)
}

// StaticModel is a Model known only by its shapes
type StaticModel struct {
	Lags   int
	Series int
	Steps  int
	Levels int
}

// InputShape implements Model
func (m StaticModel) InputShape() (int, int) {
	return m.Lags, m.Series
}

// OutputShape implements Model
func (m StaticModel) OutputShape() (int, int) {
	return m.Steps, m.Levels
}
