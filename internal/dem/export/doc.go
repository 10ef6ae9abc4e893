// Package export persists finished elevation grids as a set of
// mutually consistent artifacts: a geo-referenced single-band GeoTIFF,
// a raw float32 NPY dump, and a JSON metadata record, plus an optional
// preview image.
//
// The three core artifacts always describe the same width, height and
// cell values; a failure writing any of them fails the whole export
// and removes whatever was already written.
package export
