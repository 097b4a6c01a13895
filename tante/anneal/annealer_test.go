package anneal

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walker moves along the integers; its energy is the distance from target.
type walker struct {
	x, target  int
	rng        *rand.Rand
	changeErr  error
	randomErr  error
	climb      bool // every change moves one step away from target
	randomized int
}

func (w *walker) Energy() (float64, error) {
	return math.Abs(float64(w.x - w.target)), nil
}

func (w *walker) Randomize() error {
	w.randomized++
	return w.randomErr
}

func (w *walker) Change() error {
	if w.changeErr != nil {
		return w.changeErr
	}
	if w.climb || w.rng.Intn(2) == 0 {
		w.x--
	} else {
		w.x++
	}
	return nil
}

func (w *walker) Clone() *walker {
	c := *w
	return &c
}

// fixedRand always returns the same draw.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAnnealer(t *testing.T, s *Settings, rng Rand, opts ...Option) *Annealer[*walker] {
	t.Helper()
	a, err := New[*walker](s, rng, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return a
}

func TestRunFindsTarget(t *testing.T) {
	s := DefaultSettings()
	s.NumStates = 5000
	s.CoolingRate = 0.999
	a := newTestAnnealer(t, s, rand.New(rand.NewSource(1)))

	w := &walker{x: 0, target: 25, rng: rand.New(rand.NewSource(2))}
	res, err := a.Run(context.Background(), w)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, w.randomized)
	assert.Equal(t, s.NumStates, res.Accepted+res.Rejected)
	assert.Zero(t, res.FailedProposals)
	assert.LessOrEqual(t, res.BestEnergy, res.FinalEnergy)
	assert.Less(t, res.BestEnergy, 25.0)
	assert.Less(t, res.FinalTemperature, res.InitTemperature)

	e, err := res.Best.Energy()
	require.NoError(t, err)
	assert.Equal(t, res.BestEnergy, e)
	assert.Equal(t, 0, w.x, "the caller's state is never changed in place")
}

func TestRunTemperatureSchedule(t *testing.T) {
	s := DefaultSettings()
	s.NumStates = 4
	s.InitTemperatureLogLen = 3
	s.InitAcceptance = math.Exp(-1)
	s.CoolingRate = 0.5
	s.CoolingRoundLen = 1
	var log bytes.Buffer
	a := newTestAnnealer(t, s, fixedRand(0.99), WithEnergyLog(&log))

	res, err := a.Run(context.Background(), &walker{climb: true})
	require.NoError(t, err)

	// Every initial move climbs by one, so T0 = -1 / ln(1/e) = 1.
	assert.InDelta(t, 1.0, res.InitTemperature, 1e-12)
	assert.InDelta(t, 0.125, res.FinalTemperature, 1e-12)

	// exp(-1/T) never beats 0.99, so every uphill proposal is rejected.
	assert.Equal(t, 0, res.Accepted)
	assert.Equal(t, 4, res.Rejected)
	assert.Equal(t, 0.0, res.BestEnergy, "the starting point stays the best")
	assert.Equal(t, 3.0, res.FinalEnergy)
	assert.Equal(t, 3.0, res.MeanEnergy)
	assert.Equal(t, 0.0, res.StdDevEnergy)

	rows, err := csv.NewReader(&log).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"state_i", "temperature", "energy"}, rows[0])
	for i, row := range rows[1:] {
		assert.Equal(t, strconv.Itoa(i), row[0])
		assert.Equal(t, "3", row[2])
	}
}

func TestRunCountsFailedProposals(t *testing.T) {
	s := DefaultSettings()
	s.NumStates = 20
	s.InitTemperatureLogLen = 5
	a := newTestAnnealer(t, s, fixedRand(0))

	res, err := a.Run(context.Background(), &walker{changeErr: errors.New("stuck")})
	require.NoError(t, err)
	assert.Equal(t, 25, res.FailedProposals)
	assert.Equal(t, 20, res.Rejected)
	assert.Equal(t, 1.0, res.InitTemperature, "no uphill samples")
}

func TestRunRandomizeError(t *testing.T) {
	a := newTestAnnealer(t, DefaultSettings(), fixedRand(0))
	boom := errors.New("boom")
	_, err := a.Run(context.Background(), &walker{randomErr: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunHonorsContext(t *testing.T) {
	a := newTestAnnealer(t, DefaultSettings(), rand.New(rand.NewSource(1)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Run(ctx, &walker{rng: rand.New(rand.NewSource(1))})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWritesLogFile(t *testing.T) {
	s := DefaultSettings()
	s.NumStates = 10
	s.InitTemperatureLogLen = 2
	s.LogFilename = filepath.Join(t.TempDir(), "energy.csv")
	a := newTestAnnealer(t, s, rand.New(rand.NewSource(1)))

	_, err := a.Run(context.Background(), &walker{rng: rand.New(rand.NewSource(1))})
	require.NoError(t, err)

	f, err := os.Open(s.LogFilename)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 11)
}

func TestAccept(t *testing.T) {
	assert.True(t, accept(5, 4, 0, fixedRand(0.5)), "downhill always")
	assert.True(t, accept(5, 5, 1, fixedRand(0.999)), "sideways always")
	assert.False(t, accept(5, 6, 0, fixedRand(0)), "no uphill at zero temperature")
	// exp(-1) ~ 0.368
	assert.True(t, accept(5, 6, 1, fixedRand(0.3)))
	assert.False(t, accept(5, 6, 1, fixedRand(0.4)))
}

func TestNewValidates(t *testing.T) {
	_, err := New[*walker](nil, fixedRand(0))
	assert.Error(t, err)

	s := DefaultSettings()
	s.CoolingRate = 1.5
	_, err = New[*walker](s, fixedRand(0))
	assert.Error(t, err)
}
