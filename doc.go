// Package tante evolves the topology and parameters of small feed-forward
// networks through randomized structural edits, so that an outer optimizer
// such as simulated annealing can search over network shapes, not just
// weights.
//
// A network is a directed acyclic graph of neurons holding one of three
// roles (input, output, hidden). Mutation operators add and remove neurons
// and connections or perturb weights, biases and activations; each either
// succeeds or reports failure without changing anything. Restoration drives
// any network back into an operational state, where every input reaches an
// output and every output is reached by an input, which is required before
// inference.
//
// Basic usage:
//
//	settings, err := tante.LoadSettings("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading settings: %v", err)
//	}
//
//	rng := rand.New(rand.NewSource(1))
//	candidate, err := tante.NewCandidate(settings, rng, energy)
//	if err != nil {
//		log.Fatalf("Error creating candidate: %v", err)
//	}
//
//	annealer, err := anneal.New[*tante.Candidate](annealSettings, rng)
//	if err != nil {
//		log.Fatalf("Error creating annealer: %v", err)
//	}
//	result, err := annealer.Run(ctx, candidate)
package tante
