// Package tier maps context usage percentages onto five ordered bands and
// picks a contextual message for each band.
package tier

import "math/rand/v2"

// Tier is one of the five ordered usage bands.
type Tier int

const (
	VeryLow Tier = iota
	Low
	Medium
	High
	Critical
)

// Count is the number of tiers.
const Count = 5

// Placeholder is shown when a tier has no configured messages.
const Placeholder = "loading..."

var names = [Count]string{"very_low", "low", "medium", "high", "critical"}

func (t Tier) String() string {
	if t < VeryLow || t > Critical {
		return "unknown"
	}
	return names[t]
}

// All returns every tier, lowest first.
func All() []Tier {
	return []Tier{VeryLow, Low, Medium, High, Critical}
}

// Clamp bounds a percentage to [0,100]. Usage above the window size
// (150%) becomes 100, negative values become 0.
func Clamp(percent int) int {
	return min(max(percent, 0), 100)
}

// Classify returns the tier for a percentage already clamped to [0,100].
// Boundaries are inclusive: ≤20, 21–40, 41–60, 61–80, 81–100.
func Classify(percent int) Tier {
	switch {
	case percent <= 20:
		return VeryLow
	case percent <= 40:
		return Low
	case percent <= 60:
		return Medium
	case percent <= 80:
		return High
	default:
		return Critical
	}
}

// Pools holds one message list per tier, indexed by Tier.
type Pools [Count][]string

// Pick chooses a message for t uniformly at random using intn, which must
// return a value in [0,n). A nil intn uses math/rand/v2.
func (p Pools) Pick(t Tier, intn func(n int) int) string {
	if t < VeryLow || t > Critical {
		return Placeholder
	}
	pool := p[t]
	if len(pool) == 0 {
		return Placeholder
	}
	if intn == nil {
		intn = rand.IntN
	}
	msg := pool[intn(len(pool))]
	if msg == "" {
		return Placeholder
	}
	return msg
}
