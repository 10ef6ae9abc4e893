// Package dem rasterizes scattered survey point clouds onto regular
// elevation grids.
//
// Responsibilities: grid sizing policy, scattered-to-grid
// interpolation, gap filling, and the Rasterize pipeline that chains
// them. Exporting the finished grid lives in dem/export; this package
// has no filesystem dependency and is testable without I/O.
package dem
