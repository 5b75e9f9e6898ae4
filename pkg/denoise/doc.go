// Package denoise restores grids built from repeated copies of one pattern.
//
// The input is assumed to be a tiling of a single template with some cells
// corrupted. [ExtractTiles] finds every connected non-background region,
// ignoring color, and cuts out its bounding box; regions smaller than the
// minimum size are dropped as debris. [FindTemplate] picks the most common
// tile content. [Reconstruct] stamps the template over every tile that has
// the template's shape and is at least Threshold similar to it, on a fresh
// background grid; everything else is discarded as noise.
//
// When no tile survives the size filter the input is returned unchanged.
package denoise
