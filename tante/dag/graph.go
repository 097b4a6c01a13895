// Package dag is a directed acyclic graph store built on gonum's simple
// directed graph. Vertices and edges carry payloads and are addressed by
// stable int64 identifiers. Edges that would close a cycle are rejected.
package dag

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

type edge[E any] struct {
	from, to int64
	payload  E
}

// Graph stores vertex payloads of type V and edge payloads of type E.
type Graph[V, E any] struct {
	g *simple.DirectedGraph

	nextVertex int64
	nextEdge   int64

	vertices    map[int64]V
	vertexOrder []int64

	edges     map[int64]*edge[E]
	edgeOrder []int64
	pairs     map[[2]int64]int64 // (from, to) -> edge id
}

// New creates an empty graph.
func New[V, E any]() *Graph[V, E] {
	return &Graph[V, E]{
		g:        simple.NewDirectedGraph(),
		vertices: make(map[int64]V),
		edges:    make(map[int64]*edge[E]),
		pairs:    make(map[[2]int64]int64),
	}
}

// AddVertex stores v and returns its identifier.
func (d *Graph[V, E]) AddVertex(v V) int64 {
	id := d.nextVertex
	d.nextVertex++
	d.g.AddNode(simple.Node(id))
	d.vertices[id] = v
	d.vertexOrder = append(d.vertexOrder, id)
	return id
}

// RemoveVertex deletes a vertex together with every edge incident to it.
func (d *Graph[V, E]) RemoveVertex(id int64) bool {
	if _, ok := d.vertices[id]; !ok {
		return false
	}
	for _, eid := range d.InEdges(id) {
		d.forgetEdge(eid)
	}
	for _, eid := range d.OutEdges(id) {
		d.forgetEdge(eid)
	}
	d.g.RemoveNode(id)
	delete(d.vertices, id)
	d.vertexOrder = removeID(d.vertexOrder, id)
	return true
}

// AddEdge connects from -> to. It is rejected when either endpoint is
// missing, when from == to, when the pair is already connected, or when the
// edge would close a cycle.
func (d *Graph[V, E]) AddEdge(from, to int64, e E) (int64, bool) {
	if from == to {
		return 0, false
	}
	if _, ok := d.vertices[from]; !ok {
		return 0, false
	}
	if _, ok := d.vertices[to]; !ok {
		return 0, false
	}
	if d.g.HasEdgeFromTo(from, to) {
		return 0, false
	}
	if topo.PathExistsIn(d.g, d.g.Node(to), d.g.Node(from)) {
		return 0, false
	}
	d.g.SetEdge(d.g.NewEdge(d.g.Node(from), d.g.Node(to)))

	id := d.nextEdge
	d.nextEdge++
	d.edges[id] = &edge[E]{from: from, to: to, payload: e}
	d.edgeOrder = append(d.edgeOrder, id)
	d.pairs[[2]int64{from, to}] = id
	return id, true
}

// RemoveEdge deletes an edge.
func (d *Graph[V, E]) RemoveEdge(id int64) bool {
	if _, ok := d.edges[id]; !ok {
		return false
	}
	d.forgetEdge(id)
	return true
}

func (d *Graph[V, E]) forgetEdge(id int64) {
	e := d.edges[id]
	d.g.RemoveEdge(e.from, e.to)
	delete(d.pairs, [2]int64{e.from, e.to})
	delete(d.edges, id)
	d.edgeOrder = removeID(d.edgeOrder, id)
}

// Vertex returns the payload of vertex id.
func (d *Graph[V, E]) Vertex(id int64) (V, bool) {
	v, ok := d.vertices[id]
	return v, ok
}

// Edge returns the payload of edge id.
func (d *Graph[V, E]) Edge(id int64) (E, bool) {
	e, ok := d.edges[id]
	if !ok {
		var zero E
		return zero, false
	}
	return e.payload, true
}

// Ends returns the source and destination of edge id.
func (d *Graph[V, E]) Ends(id int64) (from, to int64, ok bool) {
	e, ok := d.edges[id]
	if !ok {
		return 0, 0, false
	}
	return e.from, e.to, true
}

// RandomVertex picks an existing vertex using u, a uniform draw in [0,1).
func (d *Graph[V, E]) RandomVertex(u float64) (int64, bool) {
	if len(d.vertexOrder) == 0 {
		return 0, false
	}
	return d.vertexOrder[pick(u, len(d.vertexOrder))], true
}

// RandomEdge picks an existing edge using u, a uniform draw in [0,1).
func (d *Graph[V, E]) RandomEdge(u float64) (int64, bool) {
	if len(d.edgeOrder) == 0 {
		return 0, false
	}
	return d.edgeOrder[pick(u, len(d.edgeOrder))], true
}

// VertexCount returns the number of vertices.
func (d *Graph[V, E]) VertexCount() int { return len(d.vertexOrder) }

// EdgeCount returns the number of edges.
func (d *Graph[V, E]) EdgeCount() int { return len(d.edgeOrder) }

// Vertices returns all vertex ids in insertion order.
func (d *Graph[V, E]) Vertices() []int64 { return cloneIDs(d.vertexOrder) }

// Edges returns all edge ids in insertion order.
func (d *Graph[V, E]) Edges() []int64 { return cloneIDs(d.edgeOrder) }

// InEdges returns the ids of edges ending at vertex id, ordered by edge id.
func (d *Graph[V, E]) InEdges(id int64) []int64 {
	if _, ok := d.vertices[id]; !ok {
		return nil
	}
	var out []int64
	for it := d.g.To(id); it.Next(); {
		out = append(out, d.pairs[[2]int64{it.Node().ID(), id}])
	}
	sortIDs(out)
	return out
}

// OutEdges returns the ids of edges starting at vertex id, ordered by edge id.
func (d *Graph[V, E]) OutEdges(id int64) []int64 {
	if _, ok := d.vertices[id]; !ok {
		return nil
	}
	var out []int64
	for it := d.g.From(id); it.Next(); {
		out = append(out, d.pairs[[2]int64{id, it.Node().ID()}])
	}
	sortIDs(out)
	return out
}

// Reachable reports whether any vertex in targets can be reached from any
// vertex in sources by a directed path. A vertex reaches itself.
func (d *Graph[V, E]) Reachable(sources, targets []int64) bool {
	want := make(map[int64]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	if len(want) == 0 {
		return false
	}
	var df traverse.DepthFirst
	for _, s := range sources {
		n := d.g.Node(s)
		if n == nil {
			continue
		}
		if df.Walk(d.g, n, func(n graph.Node) bool { return want[n.ID()] }) != nil {
			return true
		}
	}
	return false
}

// Directed exposes the underlying topology for read-only consumers such as
// encoders.
func (d *Graph[V, E]) Directed() graph.Directed { return d.g }

// Clone returns a deep copy preserving every identifier. copyV and copyE
// duplicate payloads; nil means payloads are copied by assignment.
func (d *Graph[V, E]) Clone(copyV func(V) V, copyE func(E) E) *Graph[V, E] {
	c := New[V, E]()
	c.nextVertex = d.nextVertex
	c.nextEdge = d.nextEdge
	for _, id := range d.vertexOrder {
		v := d.vertices[id]
		if copyV != nil {
			v = copyV(v)
		}
		c.g.AddNode(simple.Node(id))
		c.vertices[id] = v
	}
	c.vertexOrder = cloneIDs(d.vertexOrder)
	for _, id := range d.edgeOrder {
		e := d.edges[id]
		p := e.payload
		if copyE != nil {
			p = copyE(p)
		}
		c.g.SetEdge(c.g.NewEdge(c.g.Node(e.from), c.g.Node(e.to)))
		c.edges[id] = &edge[E]{from: e.from, to: e.to, payload: p}
		c.pairs[[2]int64{e.from, e.to}] = id
	}
	c.edgeOrder = cloneIDs(d.edgeOrder)
	return c
}
