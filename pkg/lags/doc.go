// Package lags describes which past observations feed a forecaster.
//
// A lag configuration is given either as a single count L, meaning offsets
// 1 through L, or as an explicit list of offsets such as 1,5 where the gap
// between offsets is kept. Both forms are normalized into a Spec at the
// boundary so the matrix builders only ever see an ascending offset list.
//
//	spec, _ := lags.Parse("1,5")
//	spec.Values() // [1 5]
//	spec.Max()    // 5
package lags
