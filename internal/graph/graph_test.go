package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/ident"
	"github.com/vk/flux/internal/ops"
	"github.com/vk/flux/internal/testutil"
	"github.com/vk/flux/internal/value"
)

func TestConstantAddScenario(t *testing.T) {
	ctx := context.Background()
	g := New()

	a := g.Add(ctx, ops.NewConstant(value.Float(5)))
	b := g.Add(ctx, ops.NewConstant(value.Float(3)))
	c := g.Add(ctx, ops.NewAdd())
	require.NoError(t, g.Connect(ctx, a, 0, c, 0))
	require.NoError(t, g.Connect(ctx, b, 0, c, 1))

	out, err := g.Evaluate(ctx, c, 0, evalctx.New())
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Float(8)), "got %s", out)
}

func TestDiamondCachingScenario(t *testing.T) {
	ctx := context.Background()
	g := New()

	source := testutil.Count(ops.NewConstant(value.Float(2)))
	a := g.Add(ctx, source)
	b := g.Add(ctx, ops.NewAdd())
	c := g.Add(ctx, ops.NewAdd())
	d := g.Add(ctx, ops.NewMultiply())

	require.NoError(t, g.Connect(ctx, a, 0, b, 0))
	require.NoError(t, g.Connect(ctx, a, 0, b, 1))
	require.NoError(t, g.Connect(ctx, a, 0, c, 0))
	require.NoError(t, g.Connect(ctx, a, 0, c, 1))
	require.NoError(t, g.Connect(ctx, b, 0, d, 0))
	require.NoError(t, g.Connect(ctx, c, 0, d, 1))

	out, err := g.Evaluate(ctx, d, 0, evalctx.New())
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Float(16)), "got %s", out)
	assert.Equal(t, 1, source.Computes, "the shared source computes exactly once per pass")
}

func TestMutationInvalidatesScenario(t *testing.T) {
	ctx := context.Background()
	ec := evalctx.New()
	g := New()

	a := g.Add(ctx, ops.NewConstant(value.Float(2)))
	b := g.Add(ctx, ops.NewAdd())
	c := g.Add(ctx, ops.NewAdd())
	d := g.Add(ctx, ops.NewMultiply())
	require.NoError(t, g.Connect(ctx, a, 0, b, 0))
	require.NoError(t, g.Connect(ctx, a, 0, b, 1))
	require.NoError(t, g.Connect(ctx, a, 0, c, 0))
	require.NoError(t, g.Connect(ctx, a, 0, c, 1))
	require.NoError(t, g.Connect(ctx, b, 0, d, 0))
	require.NoError(t, g.Connect(ctx, c, 0, d, 1))

	out, err := g.Evaluate(ctx, d, 0, ec)
	require.NoError(t, err)
	require.True(t, out.Equal(value.Float(16)))

	// The default on a connected input is stored but has no effect.
	require.NoError(t, g.SetInputDefault(ctx, b, 0, value.Float(10)))
	out, err = g.Evaluate(ctx, d, 0, ec)
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Float(16)), "connected input ignores its default")

	// After disconnecting, the stored default takes over.
	require.NoError(t, g.Disconnect(ctx, b, 0))
	require.NoError(t, g.SetInputDefault(ctx, b, 0, value.Float(10)))
	out, err = g.Evaluate(ctx, d, 0, ec)
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Float(48)), "got %s, want (10+2)*(2+2)", out)
}

func TestTypeCoercionFallbackScenario(t *testing.T) {
	ctx := context.Background()
	g := New()

	s := g.Add(ctx, ops.NewConstant(value.String("hello")))
	v := g.Add(ctx, ops.NewConstant(value.Vec3(1, 2, 3)))
	a := g.Add(ctx, ops.NewAdd())
	require.NoError(t, g.Connect(ctx, s, 0, a, 0), "incompatible types still connect")
	require.NoError(t, g.Connect(ctx, v, 0, a, 1))

	out, err := g.Evaluate(ctx, a, 0, evalctx.New())
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Vec3(1, 2, 3)), "got %s", out)
}

func TestEvaluateUnknownNode(t *testing.T) {
	g := New()
	_, err := g.Evaluate(context.Background(), ident.New(), 0, evalctx.New())
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestEvaluateOutputIndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := g.Add(ctx, ops.NewConstant(value.Float(1)))
	_, err := g.Evaluate(ctx, a, 5, evalctx.New())
	assert.ErrorIs(t, err, ErrStructural)
}

func TestConnectValidation(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := g.Add(ctx, ops.NewConstant(value.Float(1)))
	b := g.Add(ctx, ops.NewAdd())

	t.Run("unknown nodes", func(t *testing.T) {
		err := g.Connect(ctx, ident.New(), 0, b, 0)
		assert.ErrorIs(t, err, ErrNodeNotFound)
		err = g.Connect(ctx, a, 0, ident.New(), 0)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("port indices out of range", func(t *testing.T) {
		assert.ErrorIs(t, g.Connect(ctx, a, 3, b, 0), ErrStructural)
		assert.ErrorIs(t, g.Connect(ctx, a, 0, b, 7), ErrStructural)
	})

	t.Run("occupied non-multi input", func(t *testing.T) {
		require.NoError(t, g.Connect(ctx, a, 0, b, 0))
		err := g.Connect(ctx, a, 0, b, 0)
		assert.ErrorIs(t, err, ErrStructural)
	})
}

func TestConnectRejectsCycle(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := g.Add(ctx, ops.NewAdd())
	b := g.Add(ctx, ops.NewAdd())
	c := g.Add(ctx, ops.NewAdd())

	require.NoError(t, g.Connect(ctx, a, 0, b, 0))
	require.NoError(t, g.Connect(ctx, b, 0, c, 0))

	err := g.Connect(ctx, c, 0, a, 0)
	require.ErrorIs(t, err, ErrStructural)

	err = g.Connect(ctx, a, 0, a, 1)
	require.ErrorIs(t, err, ErrStructural, "self loops are cycles")

	// The rejected mutations left the graph evaluable.
	_, err = g.Evaluate(ctx, c, 0, evalctx.New())
	assert.NoError(t, err)
	assert.Len(t, g.Connections(), 2)
}

func TestMultiInputConnections(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := g.Add(ctx, ops.NewConstant(value.Float(1)))
	b := g.Add(ctx, ops.NewConstant(value.Float(2)))
	c := g.Add(ctx, ops.NewConstant(value.Float(4)))
	sum := g.Add(ctx, ops.NewSum())

	require.NoError(t, g.Connect(ctx, a, 0, sum, 0))
	require.NoError(t, g.Connect(ctx, b, 0, sum, 0))
	require.NoError(t, g.Connect(ctx, c, 0, sum, 0))

	err := g.Connect(ctx, b, 0, sum, 0)
	assert.ErrorIs(t, err, ErrStructural, "duplicate source on a multi input")

	out, err := g.Evaluate(ctx, sum, 0, evalctx.New())
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Float(7)), "got %s", out)

	// Removing one edge keeps the others in order.
	require.NoError(t, g.DisconnectSource(ctx, b, 0, sum, 0))
	out, err = g.Evaluate(ctx, sum, 0, evalctx.New())
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Float(5)), "got %s", out)
}

func TestRemoveNode(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := g.Add(ctx, ops.NewConstant(value.Float(5)))
	b := g.Add(ctx, ops.NewAdd())
	require.NoError(t, g.Connect(ctx, a, 0, b, 0))
	require.NoError(t, g.SetInputDefault(ctx, b, 1, value.Float(1)))

	ec := evalctx.New()
	out, err := g.Evaluate(ctx, b, 0, ec)
	require.NoError(t, err)
	require.True(t, out.Equal(value.Float(6)))

	require.NoError(t, g.Remove(ctx, a))
	assert.Equal(t, 1, g.NodeCount())
	assert.Empty(t, g.Connections(), "incident connections are removed")

	assert.ErrorIs(t, g.Remove(ctx, a), ErrNodeNotFound)

	// b now reads its input default.
	require.NoError(t, g.SetInputDefault(ctx, b, 0, value.Float(2)))
	out, err = g.Evaluate(ctx, b, 0, ec)
	require.NoError(t, err)
	assert.True(t, out.Equal(value.Float(3)), "got %s", out)
}

func TestDisconnectErrors(t *testing.T) {
	ctx := context.Background()
	g := New()
	b := g.Add(ctx, ops.NewAdd())

	assert.ErrorIs(t, g.Disconnect(ctx, ident.New(), 0), ErrNodeNotFound)
	assert.ErrorIs(t, g.Disconnect(ctx, b, 9), ErrStructural)
	assert.ErrorIs(t, g.Disconnect(ctx, b, 0), ErrStructural, "input not connected")
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := g.Add(ctx, ops.NewConstant(value.Float(1)))
	b := g.Add(ctx, ops.NewAdd())
	require.NoError(t, g.Connect(ctx, a, 0, b, 0))
	_, err := g.Evaluate(ctx, b, 0, evalctx.New())
	require.NoError(t, err)

	s := g.Stats()
	assert.Equal(t, 2, s.Nodes)
	assert.Equal(t, 1, s.Connections)
	assert.Equal(t, 2, s.CacheEntries)

	g.ClearCache()
	assert.Equal(t, 0, g.Stats().CacheEntries)
}

func TestPositionMetadata(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := g.Add(ctx, ops.NewConstant(value.Float(1)))

	require.NoError(t, g.SetPosition(a, 10, 20))
	x, y, err := g.Position(a)
	require.NoError(t, err)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)

	_, _, err = g.Position(ident.New())
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}
