// Package game holds the board snapshot an agent plans against: bases, the
// bits travelling between them and the static level and path constants.
//
// Snapshots are treated as immutable. Every method here is a pure read.
package game

// NeutralBase is the uid of the permanently unclaimed base. It never grows passively.
const NeutralBase = 0
