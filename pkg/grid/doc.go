// Package grid provides the rectangular color-cell matrix that every other
// gridrule package consumes and produces.
//
// A [Grid] holds small non-negative color codes, with 0 as background. Its
// shape is fixed at construction. Grids arriving from outside the process
// (task files, HTTP requests) go through [FromRows] or JSON decoding, which
// reject empty, ragged, negative and oversized input with an
// errors.ErrCodeInvalidGrid error.
//
// Transformations never edit their input: they build a fresh grid with [New]
// or [Grid.Clone] and return it.
//
// # JSON
//
// Grids encode as nested arrays, row-major:
//
//	[[0, 2, 0],
//	 [0, 0, 0],
//	 [0, 0, 4]]
package grid
