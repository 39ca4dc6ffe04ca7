package cfg

import "netsimplify/pkg/geometry"

// BoardExtent is the half size of the square covered by the board's spatial
// index, centered on the origin. Items outside it are still found, just not
// through the index.
var BoardExtent = 1 * geometry.Meter

// UndoLimit is the number of committed groups an undo stack keeps.
var UndoLimit = 100

// MinTraceWidth is the smallest width a net line may have.
var MinTraceWidth = 1 * geometry.Nanometer
