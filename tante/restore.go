package tante

import (
	"fmt"
	"log/slog"
)

// IsOperational reports whether every input reaches at least one output and
// every output is reached by at least one input. Hidden neurons off any
// input-output path are tolerated.
func (n *Network) IsOperational() bool {
	if n.inputs.Empty() || n.outputs.Empty() {
		return false
	}
	inputs := n.inputs.Values()
	outputs := n.outputs.Values()
	for _, in := range inputs {
		if !n.graph.Reachable([]int64{in}, outputs) {
			return false
		}
	}
	for _, out := range outputs {
		if !n.graph.Reachable(inputs, []int64{out}) {
			return false
		}
	}
	return true
}

// Restore brings the network into an operational state. Missing input and
// output neurons are created first; then restoration operators are drawn and
// applied until the network is operational or MaxRestoreAttempts draws have
// been made, in which case ErrRestoreFailed is returned. Dangling hidden
// neurons are pruned afterwards when PruneDangling is set.
func (n *Network) Restore() error {
	for n.inputs.Len() < n.Settings.NumInputs {
		n.addRole(n.inputs, n.Settings.NumInputs)
	}
	for n.outputs.Len() < n.Settings.NumOutputs {
		n.addRole(n.outputs, n.Settings.NumOutputs)
	}

	attempts := 0
	for !n.IsOperational() {
		if attempts >= n.Settings.MaxRestoreAttempts {
			n.logger.Warn("restoration budget exhausted",
				slog.Int("attempts", attempts),
				slog.String("network", n.String()))
			return fmt.Errorf("%w after %d attempts", ErrRestoreFailed, attempts)
		}
		attempts++
		op, ok := n.RandomOperation(RestoreOperations)
		if !ok {
			return fmt.Errorf("%w: every restoration operator has zero weight", ErrRestoreFailed)
		}
		n.Apply(op)
	}

	if n.Settings.PruneDangling {
		if pruned := n.PruneDangling(); pruned > 0 {
			n.logger.Debug("pruned dangling neurons", slog.Int("count", pruned))
		}
	}
	return nil
}

// PruneDangling removes hidden neurons that have no inbound or no outbound
// connection and returns how many were removed. It makes a single pass over
// the hidden neurons present when it starts, so removing one neuron can leave
// a neighbour dangling until the next call. Such neurons lie on no
// input-output path, so pruning never breaks operability.
func (n *Network) PruneDangling() int {
	pruned := 0
	for _, idx := range n.hidden.Indices() {
		id, ok := n.hidden.Get(idx)
		if !ok {
			continue
		}
		if len(n.graph.InEdges(id)) == 0 || len(n.graph.OutEdges(id)) == 0 {
			if n.removeNeuron(n.hidden, idx) {
				pruned++
			}
		}
	}
	return pruned
}
