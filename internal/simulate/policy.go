// AngelaMos | 2026
// policy.go

package simulate

import (
	"math/rand/v2"

	"github.com/carterperez-dev/esimphony/internal/session"
)

// Policy decides the outcome of a simulated action.
type Policy interface {
	Resolve() bool
}

// Source yields values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

type AlwaysSucceed struct{}

func (AlwaysSucceed) Resolve() bool { return true }

type AlwaysFail struct{}

func (AlwaysFail) Resolve() bool { return false }

type probabilistic struct {
	p   float64
	src Source
}

// Probabilistic succeeds with probability p. A nil src draws from the
// process-wide generator.
func Probabilistic(p float64, src Source) Policy {
	switch {
	case p >= 1:
		return AlwaysSucceed{}
	case p <= 0:
		return AlwaysFail{}
	}

	if src == nil {
		src = globalSource{}
	}
	return probabilistic{p: p, src: src}
}

func (p probabilistic) Resolve() bool {
	return p.src.Float64() < p.p
}

// FailureRate is Probabilistic expressed as the chance of failing.
func FailureRate(rate float64, src Source) Policy {
	return Probabilistic(1-rate, src)
}

// ForBehavior picks the policy for an identity: a fixed override wins
// over the probabilistic draw.
func ForBehavior(b session.ActivationBehavior, p float64, src Source) Policy {
	switch b {
	case session.BehaviorSuccess:
		return AlwaysSucceed{}
	case session.BehaviorFail:
		return AlwaysFail{}
	default:
		return Probabilistic(p, src)
	}
}
