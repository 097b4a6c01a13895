package tante

import (
	"fmt"
)

// EnergyFunc scores an operational network. Lower is better.
type EnergyFunc func(net *Network) (float64, error)

// Candidate wraps one network as a unit of search for an outer optimizer. It
// memoizes the energy until the network changes.
type Candidate struct {
	settings *Settings
	rng      Rand
	energyFn EnergyFunc
	opts     []Option

	net          *Network
	energy       float64
	energyCached bool
}

// NewCandidate creates a candidate holding an empty network. Call Randomize
// before asking for its energy.
func NewCandidate(settings *Settings, rng Rand, energyFn EnergyFunc, opts ...Option) (*Candidate, error) {
	if energyFn == nil {
		return nil, fmt.Errorf("energy function must not be nil")
	}
	net, err := NewNetwork(settings, rng, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	return &Candidate{
		settings: settings,
		rng:      rng,
		energyFn: energyFn,
		opts:     opts,
		net:      net,
	}, nil
}

// Network returns the wrapped network.
func (c *Candidate) Network() *Network { return c.net }

// Energy returns the memoized energy, computing it on first use after a change.
func (c *Candidate) Energy() (float64, error) {
	if c.energyCached {
		return c.energy, nil
	}
	e, err := c.energyFn(c.net)
	if err != nil {
		return 0, fmt.Errorf("energy evaluation failed: %w", err)
	}
	c.energy = e
	c.energyCached = true
	return e, nil
}

// Randomize discards the network and rebuilds a minimal operational one.
func (c *Candidate) Randomize() error {
	net, err := NewNetwork(c.settings, c.rng, c.opts...)
	if err != nil {
		return fmt.Errorf("failed to create network: %w", err)
	}
	c.net = net
	c.energyCached = false
	return c.net.Restore()
}

// Change applies one operator drawn from the full catalog, retrying draws
// until one succeeds, then restores operability. The memoized energy is
// dropped.
func (c *Candidate) Change() error {
	applied := false
	for attempt := 0; attempt < c.settings.MaxChangeAttempts; attempt++ {
		op, ok := c.net.RandomOperation(AllOperations)
		if !ok {
			return fmt.Errorf("%w: every operator has zero weight", ErrChangeFailed)
		}
		if c.net.Apply(op) {
			applied = true
			break
		}
	}
	if !applied {
		return fmt.Errorf("%w after %d attempts", ErrChangeFailed, c.settings.MaxChangeAttempts)
	}
	c.energyCached = false
	return c.net.Restore()
}

// Clone returns an independent candidate with a deep copy of the network and
// the same cached energy.
func (c *Candidate) Clone() *Candidate {
	d := *c
	d.net = c.net.Clone()
	return &d
}
