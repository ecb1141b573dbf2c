// Package state holds the shared application state of the browser.
//
// A Store publishes immutable State snapshots. Every mutation copies the
// snapshot, replaces the parts it changes and swaps the pointer, so a part
// that did not change keeps its identity across snapshots. Subscribers
// receive the previous and the next snapshot.
package state
