// Package feature holds the per-series transformations applied before and
// after lag matrices are built: scalers fitted on each training series and
// the lag-row embedding used by the vector index.
package feature
