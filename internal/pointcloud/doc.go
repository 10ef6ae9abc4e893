// Package pointcloud holds the in-memory representation of survey
// point clouds and their spatial bounds, plus synthetic cloud
// generation and ASC text file I/O.
//
// A cloud is owned by the pipeline run that loaded it and is discarded
// once the elevation grid has been produced; nothing in this package
// keeps state across runs.
package pointcloud
