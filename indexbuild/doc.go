// Package indexbuild derives the VNB index from a directory of per-VNB
// geometry files.
//
// Only the first feature of each file is read for metadata. Records are
// sorted by name with German collation.
package indexbuild
