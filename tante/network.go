package tante

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/baldhumanity/tante-go/tante/dag"
	"github.com/baldhumanity/tante-go/tante/slots"
)

var (
	// ErrNotOperational is returned by Infer when some input cannot reach an
	// output or some output is not reached by an input.
	ErrNotOperational = errors.New("network is not operational")
	// ErrInputSize is returned by Infer when the input vector length does not
	// match the configured number of inputs.
	ErrInputSize = errors.New("input size mismatch")
	// ErrRestoreFailed is returned when restoration exhausts its retry budget.
	ErrRestoreFailed = errors.New("could not restore network")
	// ErrChangeFailed is returned when no operator could be applied within the
	// retry budget.
	ErrChangeFailed = errors.New("could not change network")
)

// Graph is the DAG substrate a Network is built on. *dag.Graph[*Neuron,
// *Connection] satisfies it.
type Graph interface {
	AddVertex(v *Neuron) int64
	RemoveVertex(id int64) bool
	AddEdge(from, to int64, c *Connection) (int64, bool)
	RemoveEdge(id int64) bool
	Vertex(id int64) (*Neuron, bool)
	Edge(id int64) (*Connection, bool)
	Ends(id int64) (from, to int64, ok bool)
	RandomVertex(u float64) (int64, bool)
	RandomEdge(u float64) (int64, bool)
	VertexCount() int
	EdgeCount() int
	Vertices() []int64
	Edges() []int64
	InEdges(id int64) []int64
	OutEdges(id int64) []int64
	Reachable(sources, targets []int64) bool
}

// Roles is the stable-handle storage backing one role. *slots.Storage[int64]
// satisfies it.
type Roles interface {
	Add(id int64) int
	Remove(idx int) bool
	Contains(id int64) bool
	ContainsIndex(idx int) bool
	Get(idx int) (int64, bool)
	IndexOf(id int64) (int, bool)
	Random(u float64) (int, bool)
	Len() int
	Empty() bool
	Indices() []int
	Values() []int64
}

// Network is an evolvable feed-forward graph. It is not safe for concurrent
// use; one network belongs to one candidate.
type Network struct {
	Settings *Settings

	graph   Graph
	inputs  Roles
	outputs Roles
	hidden  Roles

	rng    Rand
	logger *slog.Logger
}

// Option configures a Network.
type Option func(*Network)

// WithLogger sets the logger used for restoration and pruning diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(n *Network) { n.logger = l }
}

// NewNetwork creates an empty network backed by the gonum DAG substrate.
// Settings are validated; rng is the only source of randomness the network
// uses.
func NewNetwork(settings *Settings, rng Rand, opts ...Option) (*Network, error) {
	return NewNetworkWith(settings, rng,
		dag.New[*Neuron, *Connection](),
		slots.New[int64](), slots.New[int64](), slots.New[int64](),
		opts...)
}

// NewNetworkWith creates a network over caller-supplied collaborators. The
// graph and role storages must be empty.
func NewNetworkWith(settings *Settings, rng Rand, graph Graph, inputs, outputs, hidden Roles, opts ...Option) (*Network, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings must not be nil")
	}
	if rng == nil {
		return nil, fmt.Errorf("random source must not be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	n := &Network{
		Settings: settings,
		graph:    graph,
		inputs:   inputs,
		outputs:  outputs,
		hidden:   hidden,
		rng:      rng,
		logger:   slog.Default().With(slog.String("component", "network")),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Clone returns an independent deep copy that shares settings, random source
// and logger. It requires the default gonum-backed collaborators.
func (n *Network) Clone() *Network {
	g, ok := n.graph.(*dag.Graph[*Neuron, *Connection])
	if !ok {
		panic(fmt.Sprintf("cannot clone network over %T", n.graph))
	}
	return &Network{
		Settings: n.Settings,
		graph:    g.Clone((*Neuron).Copy, (*Connection).Copy),
		inputs:   n.inputs.(*slots.Storage[int64]).Clone(),
		outputs:  n.outputs.(*slots.Storage[int64]).Clone(),
		hidden:   n.hidden.(*slots.Storage[int64]).Clone(),
		rng:      n.rng,
		logger:   n.logger,
	}
}

// roles returns the storage for r, or nil for RoleNone.
func (n *Network) roles(r Role) Roles {
	switch r {
	case RoleInput:
		return n.inputs
	case RoleOutput:
		return n.outputs
	case RoleHidden:
		return n.hidden
	}
	return nil
}

// Role returns the role of neuron id, or RoleNone if it is not a member of
// any role storage.
func (n *Network) Role(id int64) Role {
	switch {
	case n.inputs.Contains(id):
		return RoleInput
	case n.outputs.Contains(id):
		return RoleOutput
	case n.hidden.Contains(id):
		return RoleHidden
	}
	return RoleNone
}

// Inputs returns input neuron ids in stable order.
func (n *Network) Inputs() []int64 { return n.inputs.Values() }

// Outputs returns output neuron ids in stable order.
func (n *Network) Outputs() []int64 { return n.outputs.Values() }

// Hidden returns hidden neuron ids in stable order.
func (n *Network) Hidden() []int64 { return n.hidden.Values() }

// Neurons returns every neuron id in creation order.
func (n *Network) Neurons() []int64 { return n.graph.Vertices() }

// Connections returns every connection id in creation order.
func (n *Network) Connections() []int64 { return n.graph.Edges() }

// Neuron returns the neuron stored under id.
func (n *Network) Neuron(id int64) (*Neuron, bool) { return n.graph.Vertex(id) }

// Connection returns the connection stored under id.
func (n *Network) Connection(id int64) (*Connection, bool) { return n.graph.Edge(id) }

// Ends returns the source and destination neuron of connection id.
func (n *Network) Ends(id int64) (src, dst int64, ok bool) { return n.graph.Ends(id) }

// NodeCount returns the number of neurons.
func (n *Network) NodeCount() int { return n.graph.VertexCount() }

// ConnectionCount returns the number of connections.
func (n *Network) ConnectionCount() int { return n.graph.EdgeCount() }

// AddNeuron inserts a neuron with the given role and parameters. It ignores
// capacity limits and is meant for building fixed topologies. ActivationRandom
// is resolved before the neuron is stored.
func (n *Network) AddNeuron(role Role, activation Activation, bias float64) int64 {
	store := n.roles(role)
	if store == nil {
		panic(fmt.Sprintf("cannot add neuron with role %s", role))
	}
	id := n.graph.AddVertex(&Neuron{Activation: ResolveActivation(activation, n.rng), Bias: bias})
	store.Add(id)
	return id
}

// Connect adds a connection src -> dst with a fixed weight, subject to the
// same direction and acyclicity rules as the connection-add operator.
func (n *Network) Connect(src, dst int64, weight float64) (int64, bool) {
	return n.connect(src, dst, &Connection{Weight: weight})
}

// connect enforces the role direction constraint before delegating to the
// substrate, which rejects self loops, duplicates and cycles.
func (n *Network) connect(src, dst int64, c *Connection) (int64, bool) {
	if src == dst || n.outputs.Contains(src) || n.inputs.Contains(dst) {
		return 0, false
	}
	return n.graph.AddEdge(src, dst, c)
}

// removeNeuron drops id from its role storage and the graph, cascading edges.
func (n *Network) removeNeuron(store Roles, idx int) bool {
	id, ok := store.Get(idx)
	if !ok {
		return false
	}
	store.Remove(idx)
	return n.graph.RemoveVertex(id)
}

func (n *Network) String() string {
	return fmt.Sprintf("Network(Inputs: %d, Outputs: %d, Hidden: %d, Connections: %d)",
		n.inputs.Len(), n.outputs.Len(), n.hidden.Len(), n.graph.EdgeCount())
}
