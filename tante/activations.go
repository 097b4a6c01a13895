package tante

import (
	"fmt"
	"math"
	"strings"
)

// Activation tags the transfer function of a neuron.
type Activation int

const (
	ActivationIdentity Activation = iota
	ActivationBinaryStep
	ActivationTanh
	ActivationSigmoid
	ActivationReLU

	// ActivationRandom is not a function. It resolves to one concrete tag,
	// chosen uniformly, when a neuron is created or re-rolled.
	ActivationRandom
)

// numActivations counts the concrete tags.
const numActivations = int(ActivationRandom)

var activationNames = [...]string{
	ActivationIdentity:   "identity",
	ActivationBinaryStep: "binary_step",
	ActivationTanh:       "tanh",
	ActivationSigmoid:    "sigmoid",
	ActivationReLU:       "relu",
	ActivationRandom:     "random",
}

// activationFunctions is indexed by concrete tag.
var activationFunctions = [numActivations]func(float64) float64{
	ActivationIdentity:   Identity,
	ActivationBinaryStep: BinaryStep,
	ActivationTanh:       math.Tanh,
	ActivationSigmoid:    Sigmoid,
	ActivationReLU:       ReLU,
}

func (a Activation) String() string {
	if a < 0 || int(a) >= len(activationNames) {
		return fmt.Sprintf("Activation(%d)", int(a))
	}
	return activationNames[a]
}

// ParseActivation resolves a name as used in config files and table exports.
func ParseActivation(name string) (Activation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "linear":
		return ActivationIdentity, nil
	case "step":
		return ActivationBinaryStep, nil
	}
	for i, n := range activationNames {
		if n == name {
			return Activation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown activation function: %s", name)
}

// Concrete reports whether a names a real function rather than the meta tag.
func (a Activation) Concrete() bool {
	return a >= 0 && int(a) < numActivations
}

// Apply evaluates the tagged function. Calling it on a non-concrete tag is a
// programming error.
func (a Activation) Apply(x float64) float64 {
	if !a.Concrete() {
		panic(fmt.Sprintf("activation %s cannot be evaluated", a))
	}
	return activationFunctions[a](x)
}

// ResolveActivation turns ActivationRandom into a uniformly drawn concrete tag.
// Concrete tags are returned unchanged.
func ResolveActivation(a Activation, rng Rand) Activation {
	if a != ActivationRandom {
		return a
	}
	return Activation(randIndex(rng, numActivations))
}

// Identity returns x.
func Identity(x float64) float64 { return x }

// BinaryStep returns 1 for x >= 0 and 0 otherwise.
func BinaryStep(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1
}

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ReLU returns max(0, x).
func ReLU(x float64) float64 {
	return math.Max(0, x)
}
