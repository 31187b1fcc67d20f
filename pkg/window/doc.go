// Package window builds supervised-learning matrices from a series.
//
// CreateLags is the batch form: given a series, a lag list, the maximum lag
// and the number of steps it returns the lag matrix X and the target matrix
// Y, both with one row per time origin. Builder is the streaming form that
// yields the same rows one sample at a time as observations arrive.
//
// For y = 0..9, lags [1, 2, 3] and one step:
//
//	X = [[2 1 0] [3 2 1] ... [8 7 6]]
//	Y = [[3] [4] ... [9]]
package window
