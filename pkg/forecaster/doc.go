// Package forecaster wraps a recurrent model known by its shapes and turns
// raw series into the lag and target matrices the model trains on.
//
// The model input shape fixes the number of lag columns and the number of
// series; the output shape fixes the forecast horizon and the number of
// predicted levels. Lags with gaps keep one column per lag while the maximum
// lag sets how much history each row needs:
//
//	f, err := forecaster.New(forecaster.StaticModel{Lags: 6, Series: 1, Steps: 3, Levels: 1}, []string{"l1"})
//	x, y, err := f.CreateLags(values, f.Lags)
package forecaster
