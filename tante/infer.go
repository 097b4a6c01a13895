package tante

import "fmt"

// Infer propagates inputs through the network and returns one value per
// output neuron, in output storage order. inputs[i] feeds the i-th input
// neuron in input storage order and is used as its signal unchanged.
//
// Each neuron's signal is activation(bias + sum(weight * source signal)) over
// its inbound connections, evaluated depth first from the outputs. Signals
// are memoized for the duration of one call only.
func (n *Network) Infer(inputs []float64) ([]float64, error) {
	if len(inputs) != n.Settings.NumInputs || len(inputs) != n.inputs.Len() {
		return nil, fmt.Errorf("%w: got %d values for %d inputs", ErrInputSize, len(inputs), n.inputs.Len())
	}
	if !n.IsOperational() {
		return nil, ErrNotOperational
	}

	memo := make(map[int64]float64, n.graph.VertexCount())
	for i, id := range n.inputs.Values() {
		memo[id] = inputs[i]
	}

	outputIDs := n.outputs.Values()
	outputs := make([]float64, len(outputIDs))
	for i, id := range outputIDs {
		outputs[i] = n.signal(id, memo)
	}
	return outputs, nil
}

// signal computes the output of neuron id, consulting and filling memo.
func (n *Network) signal(id int64, memo map[int64]float64) float64 {
	if v, ok := memo[id]; ok {
		return v
	}
	nr, ok := n.graph.Vertex(id)
	if !ok {
		panic(fmt.Sprintf("neuron %d referenced but missing", id))
	}
	sum := nr.Bias
	for _, eid := range n.graph.InEdges(id) {
		src, _, _ := n.graph.Ends(eid)
		c, _ := n.graph.Edge(eid)
		sum += c.Weight * n.signal(src, memo)
	}
	v := nr.Activation.Apply(sum)
	memo[id] = v
	return v
}
