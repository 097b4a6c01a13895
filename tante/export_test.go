package tante

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRoundTrip(t *testing.T) {
	s := DefaultSettings(3, 2, 6)
	n := newTestNetwork(t, s, 31)
	require.NoError(t, n.Restore())
	for i := 0; i < 40; i++ {
		n.Apply(OpHiddenAttach)
		n.Apply(OpConnectionAdd)
		n.Apply(OpBiasReroll)
	}

	var buf bytes.Buffer
	require.NoError(t, n.WriteTable(&buf))

	m, err := ReadTable(&buf, s, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, n.NodeCount(), m.NodeCount())
	assert.Equal(t, n.ConnectionCount(), m.ConnectionCount())
	assert.Equal(t, len(n.Hidden()), len(m.Hidden()))
	assertInvariants(t, m)

	for _, in := range [][]float64{{0, 0, 0}, {1, -2, 0.5}, {10, 3, -7}} {
		want, err := n.Infer(in)
		require.NoError(t, err)
		got, err := m.Infer(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestWriteTableFormat(t *testing.T) {
	n := newTestNetwork(t, DefaultSettings(1, 1, 1), 1)
	out := n.AddNeuron(RoleOutput, ActivationTanh, 0.25)
	in := n.AddNeuron(RoleInput, ActivationIdentity, 0)
	_, _ = n.Connect(in, out, -1.5)

	var buf bytes.Buffer
	require.NoError(t, n.WriteTable(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "node,"), "inputs come first")
	assert.Contains(t, lines[0], ",input,identity,0")
	assert.Contains(t, lines[1], ",output,tanh,0.25")
	assert.True(t, strings.HasPrefix(lines[2], "edge,"))
	assert.True(t, strings.HasSuffix(lines[2], ",-1.5"))
}

func TestReadTableErrors(t *testing.T) {
	s := DefaultSettings(1, 1, 1)
	tests := []struct {
		name  string
		table string
	}{
		{"unknown kind", "vertex,1,input,identity,0\n"},
		{"bad role", "node,1,middle,identity,0\n"},
		{"bad activation", "node,1,input,softmax,0\n"},
		{"bad bias", "node,1,input,identity,x\n"},
		{"short row", "node,1,input\n"},
		{"dangling edge", "node,1,input,identity,0\nedge,1,1,2,0.5\n"},
		{"bad weight", "node,1,input,identity,0\nnode,2,output,identity,0\nedge,1,1,2,w\n"},
		{"wrong direction", "node,1,input,identity,0\nnode,2,output,identity,0\nedge,1,2,1,0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.table), s, rand.New(rand.NewSource(1)))
			assert.Error(t, err)
		})
	}
}

func TestMarshalDOT(t *testing.T) {
	n := newTestNetwork(t, DefaultSettings(1, 1, 1), 1)
	in := n.AddNeuron(RoleInput, ActivationIdentity, 0)
	out := n.AddNeuron(RoleOutput, ActivationSigmoid, 0.5)
	_, _ = n.Connect(in, out, 2)

	b, err := n.MarshalDOT("net")
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, "digraph net")
	assert.Contains(t, s, "invhouse")
	assert.Contains(t, s, "sigmoid")
	assert.Contains(t, s, "->")
	assert.Contains(t, s, "2.000")
}
