// Package fuzzy implements the approximate name search over the VNB index.
//
// A record's score is the smallest normalized edit distance between the
// query and any query-sized window of its name or secondary identifier, so
// "stadtwerke münchn" still finds "Stadtwerke München GmbH". Scores range
// from 0 (exact or substring) to 1. Records scoring above the threshold are
// dropped.
package fuzzy
