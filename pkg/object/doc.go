// Package object finds objects in grids and pairs them across grids.
//
// An object is a [Block]: one 4-connected region of a single non-background
// color. [Extract] labels every color separately, so touching regions of
// different colors stay distinct and disconnected regions of one color yield
// separate blocks. [Label] exposes the underlying component labeling with an
// arbitrary cell predicate; the denoise package uses it color-agnostically.
//
// # Ordering
//
// Output order is deterministic: colors ascending, then components in the
// raster order of their first cell, with each block's coordinates in
// row-major order. Downstream inference relies on this when it breaks ties
// by "first encountered".
//
// # Matching
//
// [Match] pairs input and output blocks by color. Only the first block of
// each color on either side takes part; further same-color blocks are
// ignored. Rule inference downstream assumes at most one match per color.
package object
