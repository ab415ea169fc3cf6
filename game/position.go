package game

import "math"

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// DistanceTo returns the euclidean distance to other, truncated toward zero.
func (p Position) DistanceTo(other Position) int {
	dx := other.X - p.X
	dy := other.Y - p.Y
	dz := other.Z - p.Z
	return int(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}
