package game

import (
	"bitwars/utils"

	"github.com/google/uuid"
)

// Progress tracks how far an action has travelled along its path.
type Progress struct {
	Distance int `json:"distance"` // Total path length
	Traveled int `json:"traveled"` // Distance covered so far
}

// BoardAction is a batch of bits already committed to a path.
type BoardAction struct {
	Src      int       `json:"src"`    // UID of the source base
	Dest     int       `json:"dest"`   // UID of the destination base
	Amount   int       `json:"amount"` // Number of bits moved
	UUID     uuid.UUID `json:"uuid"`
	Player   int       `json:"player"` // Owner of the bits
	Progress Progress  `json:"progress"`
}

// ArrivalInTicks returns the ticks left until the action lands.
func (a BoardAction) ArrivalInTicks() int {
	return utils.SaturatingSub(a.Progress.Distance, a.Progress.Traveled)
}

// AmountAtTarget returns the bits left on arrival. Losses depend on the total
// path length, not on the remaining distance.
func (a BoardAction) AmountAtTarget(paths PathConfig) int {
	if a.Progress.Distance < paths.GracePeriod {
		return a.Amount
	}
	deaths := paths.DeathRate * (a.Progress.Distance - paths.GracePeriod)
	return utils.SaturatingSub(a.Amount, deaths)
}

// PlayerAction is an order issued by the agent. Src == Dest moves bits into
// the upgrade pool of the base instead of attacking.
type PlayerAction struct {
	Src    int `json:"src"`
	Dest   int `json:"dest"`
	Amount int `json:"amount"`
}

func (a PlayerAction) IsUpgrade() bool {
	return a.Src == a.Dest
}
