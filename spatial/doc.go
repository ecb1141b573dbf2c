// Package spatial implements the in-memory catalogue of VNB service areas.
//
// A Store is built once from the pre-computed index resource ("vnb/index.json")
// and answers tag, substring and bounding-box queries over the lightweight
// metadata records. Geometries are not held here; see package geometry.
//
// Tag queries are answered from one roaring bitmap per tag over record
// ordinals; bounding-box queries from an R-tree.
package spatial
