// Package admin gates the loading of the three administrative boundary layers
// (Bundesländer, Kreise, Gemeinden) on the current zoom level.
//
// Each layer has a fetch threshold and an independent display threshold. A
// layer is fetched at most once per session: only when it is visible, the zoom
// is at or above its fetch threshold and it has not been requested before.
// Loaded data is kept for the process lifetime; dropping below the threshold
// only suppresses display. A failed load is terminal for the session.
package admin
