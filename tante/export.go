package tante

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Table rows have five columns:
//
//	node,<id>,<role>,<activation>,<bias>
//	edge,<id>,<src>,<dst>,<weight>
//
// Nodes are written grouped by role in storage order, inputs first, so that
// reading a table back preserves the input/output positions used by Infer.
const (
	rowNode = "node"
	rowEdge = "edge"
)

// WriteTable writes one row per neuron and one row per connection.
func (n *Network) WriteTable(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, role := range []Role{RoleInput, RoleOutput, RoleHidden} {
		for _, id := range n.roles(role).Values() {
			nr, _ := n.graph.Vertex(id)
			err := cw.Write([]string{
				rowNode,
				strconv.FormatInt(id, 10),
				role.String(),
				nr.Activation.String(),
				formatFloat(nr.Bias),
			})
			if err != nil {
				return fmt.Errorf("failed to write node %d: %w", id, err)
			}
		}
	}
	for _, id := range n.graph.Edges() {
		src, dst, _ := n.graph.Ends(id)
		c, _ := n.graph.Edge(id)
		err := cw.Write([]string{
			rowEdge,
			strconv.FormatInt(id, 10),
			strconv.FormatInt(src, 10),
			strconv.FormatInt(dst, 10),
			formatFloat(c.Weight),
		})
		if err != nil {
			return fmt.Errorf("failed to write connection %d: %w", id, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable rebuilds a network from a table produced by WriteTable. Neuron
// and connection ids are reassigned; roles, parameters and role order are
// preserved.
func ReadTable(r io.Reader, settings *Settings, rng Rand, opts ...Option) (*Network, error) {
	net, err := NewNetwork(settings, rng, opts...)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	ids := make(map[int64]int64)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read table: %w", err)
		}
		switch rec[0] {
		case rowNode:
			oldID, err := strconv.ParseInt(rec[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad node id: %w", line, err)
			}
			role, err := ParseRole(rec[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			act, err := ParseActivation(rec[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			bias, err := strconv.ParseFloat(rec[4], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad bias: %w", line, err)
			}
			ids[oldID] = net.AddNeuron(role, act, bias)
		case rowEdge:
			src, err1 := strconv.ParseInt(rec[2], 10, 64)
			dst, err2 := strconv.ParseInt(rec[3], 10, 64)
			weight, err3 := strconv.ParseFloat(rec[4], 64)
			if err := errors.Join(err1, err2, err3); err != nil {
				return nil, fmt.Errorf("line %d: bad connection: %w", line, err)
			}
			from, ok1 := ids[src]
			to, ok2 := ids[dst]
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("line %d: connection references unknown neuron", line)
			}
			if _, ok := net.Connect(from, to, weight); !ok {
				return nil, fmt.Errorf("line %d: connection %d -> %d rejected", line, src, dst)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown row kind %q", line, rec[0])
		}
	}
	return net, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// dotNode and dotEdge carry DOT attributes for visualization.
type dotNode struct {
	id    int64
	attrs []encoding.Attribute
}

func (d dotNode) ID() int64                        { return d.id }
func (d dotNode) Attributes() []encoding.Attribute { return d.attrs }

type dotEdge struct {
	from, to graph.Node
	weight   float64
}

func (e dotEdge) From() graph.Node         { return e.from }
func (e dotEdge) To() graph.Node           { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge { return dotEdge{from: e.to, to: e.from, weight: e.weight} }
func (e dotEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: strconv.FormatFloat(e.weight, 'f', 3, 64)}}
}

var roleShapes = map[Role]string{
	RoleInput:  "invhouse",
	RoleOutput: "house",
	RoleHidden: "ellipse",
}

// MarshalDOT renders the network in Graphviz DOT format.
func (n *Network) MarshalDOT(name string) ([]byte, error) {
	g := simple.NewDirectedGraph()
	nodes := make(map[int64]dotNode, n.graph.VertexCount())
	for _, id := range n.graph.Vertices() {
		nr, _ := n.graph.Vertex(id)
		role := n.Role(id)
		dn := dotNode{id: id, attrs: []encoding.Attribute{
			{Key: "label", Value: fmt.Sprintf("%s\\n%s %.3f", role, nr.Activation, nr.Bias)},
			{Key: "shape", Value: roleShapes[role]},
		}}
		nodes[id] = dn
		g.AddNode(dn)
	}
	for _, id := range n.graph.Edges() {
		src, dst, _ := n.graph.Ends(id)
		c, _ := n.graph.Edge(id)
		g.SetEdge(dotEdge{from: nodes[src], to: nodes[dst], weight: c.Weight})
	}
	b, err := dot.Marshal(g, name, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal network to DOT: %w", err)
	}
	return b, nil
}
