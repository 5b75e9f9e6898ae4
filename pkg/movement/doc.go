// Package movement learns and replays marker-to-marker paths.
//
// Tasks in this family place single-cell markers on a grid and expect a
// trail of a fixed color between consecutive markers. The default chain is
// 2 → 4 → 3 with trail color 5.
//
// # Inference
//
// [Relate] compares two marker positions and returns at most two [Step]s:
// the horizontal decision first, then the vertical one. Only the axis
// labels survive into the learned [Rule] (see [AxisOrder]); directions are
// recomputed for every grid the rule is applied to.
//
// For each leg of the chain, the axis order comes from the first training
// pair in which both of the leg's markers are present. Pairs missing a
// marker are skipped.
//
// # Application
//
// [Walk] moves one axis at a time, one cell per step, toward the target and
// paints each visited cell with the trail color unless a marker occupies
// it. Each step reduces the remaining distance on its axis, so a walk
// always terminates.
package movement
