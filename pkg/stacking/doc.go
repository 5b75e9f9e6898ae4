// Package stacking learns how objects are re-laid side by side.
//
// Training outputs in this family contain the input's objects, unchanged in
// shape, packed against each other. [Tally] counts, over every training pair,
// how consecutive objects (ordered by their input column) sit relative to
// one another, and whether the first object lands on the origin. [Infer]
// turns the tally into a [Rule] by majority vote.
//
// # Patterns
//
// Given the previous object's bounding box h×w, the next object's top-left
// corner is offset by:
//
//	Diagonal    (h-1, w-1)  corners overlap by one cell
//	Horizontal  (0, w)      flush to the right
//	Vertical    (h, 0)      flush below
//
// A transition is classified by the first pattern it matches in that order;
// transitions matching none are not counted. Ties in the vote go to the
// earlier pattern in the same order.
package stacking
