// Package anneal runs simulated annealing over any state that can randomize
// itself, propose a changed copy and report an energy.
package anneal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// State is one point in the search space. Change mutates the receiver;
// the annealer only calls it on clones.
type State[S any] interface {
	Energy() (float64, error)
	Randomize() error
	Change() error
	Clone() S
}

// Rand is the source of acceptance draws.
type Rand interface {
	Float64() float64
}

// Result summarizes one run.
type Result[S any] struct {
	RunID            string
	Best             S
	BestEnergy       float64
	Final            S
	FinalEnergy      float64
	InitTemperature  float64
	FinalTemperature float64
	Accepted         int
	Rejected         int
	FailedProposals  int // proposals whose Change or Energy returned an error
	MeanEnergy       float64
	StdDevEnergy     float64
	Duration         time.Duration
}

// Annealer drives states of type S.
type Annealer[S State[S]] struct {
	Settings *Settings

	rng    Rand
	logger *slog.Logger
	log    io.Writer
}

// Option configures an Annealer.
type Option func(*options)

type options struct {
	logger *slog.Logger
	log    io.Writer
}

// WithLogger sets the progress logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEnergyLog writes the per-state CSV log to w instead of LogFilename.
func WithEnergyLog(w io.Writer) Option {
	return func(o *options) { o.log = w }
}

// New creates an annealer.
func New[S State[S]](settings *Settings, rng Rand, opts ...Option) (*Annealer[S], error) {
	if settings == nil {
		return nil, fmt.Errorf("settings must not be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: slog.Default().With(slog.String("component", "anneal"))}
	for _, opt := range opts {
		opt(&o)
	}
	return &Annealer[S]{Settings: settings, rng: rng, logger: o.logger, log: o.log}, nil
}

type step[S any] struct {
	state  S
	energy float64
}

// Run randomizes state, estimates an initial temperature, then anneals for
// Settings.NumStates proposals. It stops early with ctx.Err() if ctx is done.
func (a *Annealer[S]) Run(ctx context.Context, state S) (*Result[S], error) {
	start := time.Now()
	res := &Result[S]{RunID: uuid.NewString()}
	logger := a.logger.With(slog.String("run_id", res.RunID))

	logW := a.log
	if logW == nil && a.Settings.LogFilename != "" {
		f, err := os.Create(a.Settings.LogFilename)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file '%s': %w", a.Settings.LogFilename, err)
		}
		defer f.Close()
		logW = f
	}
	var csvW *csv.Writer
	if logW != nil {
		csvW = csv.NewWriter(logW)
		if err := csvW.Write([]string{"state_i", "temperature", "energy"}); err != nil {
			return nil, fmt.Errorf("failed to write log header: %w", err)
		}
	}

	if err := state.Randomize(); err != nil {
		return nil, fmt.Errorf("failed to randomize initial state: %w", err)
	}
	energy, err := state.Energy()
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate initial state: %w", err)
	}
	cur := step[S]{state: state, energy: energy}
	best := cur

	// Random walk to sample uphill moves for the initial temperature.
	var uphill []float64
	for i := 0; i < a.Settings.InitTemperatureLogLen; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, ok := a.propose(cur.state, logger)
		if !ok {
			res.FailedProposals++
			continue
		}
		if d := next.energy - cur.energy; d > 0 {
			uphill = append(uphill, d)
		}
		cur = next
		if cur.energy < best.energy {
			best = cur
		}
	}
	temperature := 1.0
	if len(uphill) > 0 {
		temperature = -floats.Max(uphill) / math.Log(a.Settings.InitAcceptance)
	}
	res.InitTemperature = temperature
	logger.Info("initial temperature selected",
		slog.Float64("temperature", temperature),
		slog.Int("samples", len(uphill)))

	energies := make([]float64, 0, a.Settings.NumStates)
	for i := 0; i < a.Settings.NumStates; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 && i%a.Settings.CoolingRoundLen == 0 {
			temperature *= a.Settings.CoolingRate
		}

		next, ok := a.propose(cur.state, logger)
		switch {
		case !ok:
			res.FailedProposals++
			res.Rejected++
		case accept(cur.energy, next.energy, temperature, a.rng):
			cur = next
			res.Accepted++
			if cur.energy < best.energy {
				best = cur
			}
		default:
			res.Rejected++
		}
		energies = append(energies, cur.energy)

		if csvW != nil {
			err := csvW.Write([]string{
				strconv.Itoa(i),
				strconv.FormatFloat(temperature, 'g', -1, 64),
				strconv.FormatFloat(cur.energy, 'g', -1, 64),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to write log row %d: %w", i, err)
			}
		}
		if p := a.Settings.ProgressPeriod; p > 0 && i%p == 0 {
			logger.Info("annealing progress",
				slog.Int("state", i),
				slog.Float64("temperature", temperature),
				slog.Float64("energy", cur.energy),
				slog.Float64("best_energy", best.energy))
		}
	}
	if csvW != nil {
		csvW.Flush()
		if err := csvW.Error(); err != nil {
			return nil, fmt.Errorf("failed to flush log: %w", err)
		}
	}

	res.Best, res.BestEnergy = best.state, best.energy
	res.Final, res.FinalEnergy = cur.state, cur.energy
	res.FinalTemperature = temperature
	res.MeanEnergy = stat.Mean(energies, nil)
	res.StdDevEnergy = stat.StdDev(energies, nil)
	res.Duration = time.Since(start)

	logger.Info("annealing finished",
		slog.Float64("best_energy", res.BestEnergy),
		slog.Int("accepted", res.Accepted),
		slog.Int("rejected", res.Rejected),
		slog.Int("failed_proposals", res.FailedProposals),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// propose returns a changed copy of s and its energy. A failure leaves s
// untouched and is reported through ok.
func (a *Annealer[S]) propose(s S, logger *slog.Logger) (step[S], bool) {
	next := s.Clone()
	if err := next.Change(); err != nil {
		logger.Debug("proposal rejected", slog.String("error", err.Error()))
		return step[S]{}, false
	}
	e, err := next.Energy()
	if err != nil {
		logger.Debug("proposal energy failed", slog.String("error", err.Error()))
		return step[S]{}, false
	}
	return step[S]{state: next, energy: e}, true
}

// accept applies the Metropolis criterion.
func accept(current, proposed, temperature float64, rng Rand) bool {
	if proposed <= current {
		return true
	}
	if temperature <= 0 {
		return false
	}
	return rng.Float64() < math.Exp(-(proposed-current)/temperature)
}
