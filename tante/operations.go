package tante

import "fmt"

// Operation is one kind of randomized structural or parametric edit.
type Operation int

// Operations in canonical order. Weighted selection builds its cumulative
// table in this order.
const (
	OpInputAdd Operation = iota
	OpInputRemove
	OpInputRerollActivation
	OpOutputAdd
	OpOutputRemove
	OpOutputRerollActivation
	OpHiddenAttach
	OpHiddenRemove
	OpHiddenRerollActivation
	OpConnectionAdd
	OpConnectionRemove
	OpWeightStep
	OpWeightReroll
	OpBiasStep
	OpBiasReroll

	numOperations
)

// AllOperations is the full catalog in canonical order.
var AllOperations = []Operation{
	OpInputAdd, OpInputRemove, OpInputRerollActivation,
	OpOutputAdd, OpOutputRemove, OpOutputRerollActivation,
	OpHiddenAttach, OpHiddenRemove, OpHiddenRerollActivation,
	OpConnectionAdd, OpConnectionRemove,
	OpWeightStep, OpWeightReroll,
	OpBiasStep, OpBiasReroll,
}

// RestoreOperations may be drawn while restoring a network. Input and output
// counts are already fixed at that point and must not be touched.
var RestoreOperations = []Operation{
	OpHiddenAttach, OpHiddenRemove,
	OpConnectionAdd, OpConnectionRemove,
	OpWeightStep, OpBiasStep,
	OpWeightReroll, OpBiasReroll,
}

var operationNames = [numOperations]string{
	OpInputAdd:               "input_add",
	OpInputRemove:            "input_remove",
	OpInputRerollActivation:  "input_reroll_activation",
	OpOutputAdd:              "output_add",
	OpOutputRemove:           "output_remove",
	OpOutputRerollActivation: "output_reroll_activation",
	OpHiddenAttach:           "hidden_attach",
	OpHiddenRemove:           "hidden_remove",
	OpHiddenRerollActivation: "hidden_reroll_activation",
	OpConnectionAdd:          "connection_add",
	OpConnectionRemove:       "connection_remove",
	OpWeightStep:             "weight_step",
	OpWeightReroll:           "weight_reroll",
	OpBiasStep:               "bias_step",
	OpBiasReroll:             "bias_reroll",
}

func (op Operation) String() string {
	if op < 0 || op >= numOperations {
		return fmt.Sprintf("Operation(%d)", int(op))
	}
	return operationNames[op]
}

// Apply performs op once and reports whether it changed the network. An
// operator that is not currently applicable returns false and leaves the
// network untouched. An unknown op panics.
func (n *Network) Apply(op Operation) bool {
	// Check the collection each operator draws from before delegating.
	switch op {
	case OpInputRemove, OpInputRerollActivation:
		if n.inputs.Empty() {
			return false
		}
	case OpOutputRemove, OpOutputRerollActivation:
		if n.outputs.Empty() {
			return false
		}
	case OpHiddenRemove, OpHiddenRerollActivation:
		if n.hidden.Empty() {
			return false
		}
	case OpHiddenAttach, OpConnectionAdd:
		if n.graph.VertexCount() < 2 {
			return false
		}
	case OpConnectionRemove, OpWeightStep, OpWeightReroll:
		if n.graph.EdgeCount() == 0 {
			return false
		}
	case OpBiasStep, OpBiasReroll:
		if n.graph.VertexCount() == 0 {
			return false
		}
	}

	switch op {
	case OpInputAdd:
		return n.addRole(n.inputs, n.Settings.NumInputs)
	case OpInputRemove:
		return n.removeRole(n.inputs)
	case OpInputRerollActivation:
		return n.rerollRole(n.inputs)
	case OpOutputAdd:
		return n.addRole(n.outputs, n.Settings.NumOutputs)
	case OpOutputRemove:
		return n.removeRole(n.outputs)
	case OpOutputRerollActivation:
		return n.rerollRole(n.outputs)
	case OpHiddenAttach:
		return n.attachHidden()
	case OpHiddenRemove:
		return n.removeRole(n.hidden)
	case OpHiddenRerollActivation:
		return n.rerollRole(n.hidden)
	case OpConnectionAdd:
		return n.addConnection()
	case OpConnectionRemove:
		return n.removeConnection()
	case OpWeightStep:
		return n.withRandomConnection(func(c *Connection) { c.stepWeight(n.Settings, n.rng) })
	case OpWeightReroll:
		return n.withRandomConnection(func(c *Connection) { c.rerollWeight(n.Settings, n.rng) })
	case OpBiasStep:
		return n.withRandomNeuron(func(nr *Neuron) { nr.stepBias(n.Settings, n.rng) })
	case OpBiasReroll:
		return n.withRandomNeuron(func(nr *Neuron) { nr.rerollBias(n.Settings, n.rng) })
	}
	panic(fmt.Sprintf("unknown operation %d", int(op)))
}

// addRole creates a neuron in store if it is below capacity.
func (n *Network) addRole(store Roles, capacity int) bool {
	if store.Len() >= capacity {
		return false
	}
	id := n.graph.AddVertex(newNeuron(n.Settings, n.rng))
	store.Add(id)
	return true
}

// removeRole removes a uniformly drawn member of store.
func (n *Network) removeRole(store Roles) bool {
	idx, ok := store.Random(n.rng.Float64())
	if !ok {
		return false
	}
	return n.removeNeuron(store, idx)
}

// rerollRole re-resolves the activation of a uniformly drawn member of store.
func (n *Network) rerollRole(store Roles) bool {
	idx, ok := store.Random(n.rng.Float64())
	if !ok {
		return false
	}
	id, _ := store.Get(idx)
	nr, ok := n.graph.Vertex(id)
	if !ok {
		return false
	}
	nr.rerollActivation(n.rng)
	return true
}

// attachHidden inserts a hidden neuron between two distinct existing neurons.
// If either connection is rejected the new neuron is removed again, taking
// any connection already made with it, so a failed attach changes nothing.
func (n *Network) attachHidden() bool {
	if n.hidden.Len() >= n.Settings.MaxHidden || n.graph.VertexCount() < 2 {
		return false
	}
	src, _ := n.graph.RandomVertex(n.rng.Float64())
	dst, ok := n.randomVertexExcept(src)
	if !ok {
		return false
	}

	id := n.graph.AddVertex(newNeuron(n.Settings, n.rng))
	idx := n.hidden.Add(id)
	if _, ok := n.connect(src, id, newConnection(n.Settings, n.rng)); !ok {
		n.removeNeuron(n.hidden, idx)
		return false
	}
	if _, ok := n.connect(id, dst, newConnection(n.Settings, n.rng)); !ok {
		n.removeNeuron(n.hidden, idx)
		return false
	}
	return true
}

// randomVertexExcept draws a vertex different from skip.
func (n *Network) randomVertexExcept(skip int64) (int64, bool) {
	ids := n.graph.Vertices()
	candidates := ids[:0:0]
	for _, id := range ids {
		if id != skip {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[randIndex(n.rng, len(candidates))], true
}

// addConnection connects two uniformly drawn neurons.
func (n *Network) addConnection() bool {
	if n.graph.VertexCount() < 2 {
		return false
	}
	src, _ := n.graph.RandomVertex(n.rng.Float64())
	dst, _ := n.graph.RandomVertex(n.rng.Float64())
	if src == dst || n.outputs.Contains(src) || n.inputs.Contains(dst) {
		return false
	}
	_, ok := n.connect(src, dst, newConnection(n.Settings, n.rng))
	return ok
}

func (n *Network) removeConnection() bool {
	id, ok := n.graph.RandomEdge(n.rng.Float64())
	if !ok {
		return false
	}
	return n.graph.RemoveEdge(id)
}

func (n *Network) withRandomConnection(fn func(*Connection)) bool {
	id, ok := n.graph.RandomEdge(n.rng.Float64())
	if !ok {
		return false
	}
	c, ok := n.graph.Edge(id)
	if !ok {
		return false
	}
	fn(c)
	return true
}

func (n *Network) withRandomNeuron(fn func(*Neuron)) bool {
	id, ok := n.graph.RandomVertex(n.rng.Float64())
	if !ok {
		return false
	}
	nr, ok := n.graph.Vertex(id)
	if !ok {
		return false
	}
	fn(nr)
	return true
}
