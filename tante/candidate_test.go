package tante

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEnergy scores a network by its size and counts evaluations.
type countingEnergy struct {
	calls int
}

func (c *countingEnergy) eval(net *Network) (float64, error) {
	c.calls++
	return float64(net.NodeCount() + net.ConnectionCount()), nil
}

func newTestCandidate(t *testing.T, s *Settings, seed int64, fn EnergyFunc) *Candidate {
	t.Helper()
	c, err := NewCandidate(s, rand.New(rand.NewSource(seed)), fn)
	require.NoError(t, err)
	return c
}

func TestNewCandidateRequiresEnergyFunc(t *testing.T) {
	_, err := NewCandidate(DefaultSettings(1, 1, 1), rand.New(rand.NewSource(1)), nil)
	assert.Error(t, err)

	_, err = NewCandidate(DefaultSettings(0, 1, 1), rand.New(rand.NewSource(1)), (&countingEnergy{}).eval)
	assert.Error(t, err)
}

func TestCandidateEnergyIsMemoized(t *testing.T) {
	ce := &countingEnergy{}
	c := newTestCandidate(t, DefaultSettings(2, 2, 3), 1, ce.eval)
	require.NoError(t, c.Randomize())

	e1, err := c.Energy()
	require.NoError(t, err)
	e2, err := c.Energy()
	require.NoError(t, err)
	assert.Equal(t, e1, e2)
	assert.Equal(t, 1, ce.calls)

	require.NoError(t, c.Change())
	_, err = c.Energy()
	require.NoError(t, err)
	assert.Equal(t, 2, ce.calls, "change drops the cached energy")

	require.NoError(t, c.Randomize())
	_, err = c.Energy()
	require.NoError(t, err)
	assert.Equal(t, 3, ce.calls, "randomize drops the cached energy")
}

func TestCandidateEnergyError(t *testing.T) {
	boom := errors.New("boom")
	c := newTestCandidate(t, DefaultSettings(1, 1, 1), 1, func(*Network) (float64, error) {
		return 0, boom
	})
	require.NoError(t, c.Randomize())
	_, err := c.Energy()
	assert.ErrorIs(t, err, boom)
}

func TestCandidateRandomizeIsOperational(t *testing.T) {
	ce := &countingEnergy{}
	for seed := int64(1); seed <= 20; seed++ {
		c := newTestCandidate(t, DefaultSettings(3, 2, 5), seed, ce.eval)
		require.NoError(t, c.Randomize())
		assert.True(t, c.Network().IsOperational())
		_, err := c.Network().Infer([]float64{1, 2, 3})
		assert.NoError(t, err)
	}
}

func TestCandidateChangeKeepsInvariants(t *testing.T) {
	ce := &countingEnergy{}
	c := newTestCandidate(t, DefaultSettings(2, 2, 4), 17, ce.eval)
	require.NoError(t, c.Randomize())
	for i := 0; i < 500; i++ {
		require.NoError(t, c.Change())
		n := c.Network()
		require.True(t, n.IsOperational())
		require.Len(t, n.Inputs(), 2)
		require.Len(t, n.Outputs(), 2)
		require.LessOrEqual(t, len(n.Hidden()), 4)
	}
	assertInvariants(t, c.Network())
}

func TestCandidateChangeFailures(t *testing.T) {
	s := DefaultSettings(1, 1, 1)
	c := newTestCandidate(t, s, 1, (&countingEnergy{}).eval)
	require.NoError(t, c.Randomize())

	for _, op := range AllOperations {
		s.SetWeight(op, 0)
	}
	assert.ErrorIs(t, c.Change(), ErrChangeFailed)

	// Only adding inputs is enabled, and the single input slot is taken.
	s.SetWeight(OpInputAdd, 1)
	s.MaxChangeAttempts = 10
	assert.ErrorIs(t, c.Change(), ErrChangeFailed)
}

func TestCandidateRandomizeFailure(t *testing.T) {
	s := DefaultSettings(1, 1, 1)
	for _, op := range AllOperations {
		s.SetWeight(op, 0)
	}
	c := newTestCandidate(t, s, 1, (&countingEnergy{}).eval)
	assert.ErrorIs(t, c.Randomize(), ErrRestoreFailed)
}

func TestCandidateCloneIsIndependent(t *testing.T) {
	ce := &countingEnergy{}
	c := newTestCandidate(t, DefaultSettings(2, 1, 3), 5, ce.eval)
	require.NoError(t, c.Randomize())
	e, err := c.Energy()
	require.NoError(t, err)

	d := c.Clone()
	de, err := d.Energy()
	require.NoError(t, err)
	assert.Equal(t, e, de)
	assert.Equal(t, 1, ce.calls, "clone carries the cached energy")

	before := c.Network().String()
	for i := 0; i < 20; i++ {
		require.NoError(t, d.Change())
	}
	assert.Equal(t, before, c.Network().String())
	ce2, err := c.Energy()
	require.NoError(t, err)
	assert.Equal(t, e, ce2)
}
