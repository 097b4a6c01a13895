package tante

import "fmt"

// Role is the topological category of a neuron. It is derived from role
// storage membership and never stored on the neuron itself.
type Role int

const (
	RoleNone Role = iota
	RoleInput
	RoleOutput
	RoleHidden
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleHidden:
		return "hidden"
	default:
		return "none"
	}
}

// ParseRole is the inverse of Role.String for the three real roles.
func ParseRole(s string) (Role, error) {
	switch s {
	case "input":
		return RoleInput, nil
	case "output":
		return RoleOutput, nil
	case "hidden":
		return RoleHidden, nil
	}
	return RoleNone, fmt.Errorf("unknown role: %s", s)
}

// --------------------------- Neuron ---------------------------

// Neuron is the payload of a graph vertex.
type Neuron struct {
	Activation Activation // always concrete once stored in a network
	Bias       float64
}

// newNeuron creates a neuron with the settings' default activation and zero bias.
func newNeuron(s *Settings, rng Rand) *Neuron {
	return &Neuron{Activation: ResolveActivation(s.Activation, rng)}
}

func (n *Neuron) String() string {
	return fmt.Sprintf("Neuron(Activation: %s, Bias: %.3f)", n.Activation, n.Bias)
}

// Copy creates a deep copy of the Neuron.
func (n *Neuron) Copy() *Neuron {
	c := *n
	return &c
}

// rerollActivation re-resolves the activation through the random meta tag.
func (n *Neuron) rerollActivation(rng Rand) {
	n.Activation = ResolveActivation(ActivationRandom, rng)
}

func (n *Neuron) stepBias(s *Settings, rng Rand) {
	n.Bias += uniformRange(rng, s.MinBiasStep, s.MaxBiasStep)
	if s.ClampBias {
		n.Bias = clamp(n.Bias, s.MinBias, s.MaxBias)
	}
}

func (n *Neuron) rerollBias(s *Settings, rng Rand) {
	n.Bias = uniformRange(rng, s.MinBias, s.MaxBias)
}

// --------------------------- Connection ---------------------------

// Connection is the payload of a graph edge. Endpoints live in the graph.
type Connection struct {
	Weight float64
}

// newConnection creates a connection with a weight drawn from the initial range.
func newConnection(s *Settings, rng Rand) *Connection {
	return &Connection{Weight: uniformRange(rng, s.MinInitWeight, s.MaxInitWeight)}
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection(Weight: %.3f)", c.Weight)
}

// Copy creates a deep copy of the Connection.
func (c *Connection) Copy() *Connection {
	d := *c
	return &d
}

func (c *Connection) stepWeight(s *Settings, rng Rand) {
	c.Weight += uniformRange(rng, s.MinWeightStep, s.MaxWeightStep)
	if s.ClampWeight {
		c.Weight = clamp(c.Weight, s.MinWeight, s.MaxWeight)
	}
}

func (c *Connection) rerollWeight(s *Settings, rng Rand) {
	c.Weight = uniformRange(rng, s.MinWeight, s.MaxWeight)
}
