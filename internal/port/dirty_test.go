package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flux/internal/value"
)

func TestFlagBasic(t *testing.T) {
	f := NewFlag(PolicyAnimated)
	assert.True(t, f.Dirty(), "a fresh flag is dirty")

	f.MarkClean()
	assert.False(t, f.Dirty())

	f.MarkDirty()
	assert.True(t, f.Dirty())
}

func TestFlagPolicies(t *testing.T) {
	ResetInvalidation()

	none := NewFlag(PolicyNone)
	none.CleanFor(0, 0)
	assert.False(t, none.DirtyFor(5, 5), "None only reacts to manual marks")
	none.MarkDirty()
	assert.True(t, none.DirtyFor(5, 5))

	always := NewFlag(PolicyAlways)
	always.CleanFor(0, 0)
	assert.True(t, always.DirtyFor(0, 0))

	timeChanged := NewFlag(PolicyTimeChanged)
	timeChanged.CleanFor(1.0, 3)
	assert.False(t, timeChanged.DirtyFor(1.0, 3))
	assert.True(t, timeChanged.DirtyFor(1.5, 3))
	assert.False(t, timeChanged.DirtyFor(1.0, 9), "frame alone does not matter")

	frameChanged := NewFlag(PolicyFrameChanged)
	frameChanged.CleanFor(1.0, 3)
	assert.False(t, frameChanged.DirtyFor(9.0, 3), "time alone does not matter")
	assert.True(t, frameChanged.DirtyFor(1.0, 4))
}

func TestAnimatedReactsToGlobalInvalidation(t *testing.T) {
	ResetInvalidation()

	f := NewFlag(PolicyAnimated)
	f.CleanFor(0, 0)
	assert.False(t, f.DirtyFor(0, 0))

	AdvanceInvalidation()
	assert.True(t, f.DirtyFor(0, 0))

	f.CleanFor(0, 0)
	assert.False(t, f.DirtyFor(0, 0))
}

func TestOutputSetMarksDirtyReadDoesNot(t *testing.T) {
	o := FloatOutput("Result")
	o.CleanFor(0, 0)
	require.False(t, o.DirtyFor(0, 0))

	_ = o.Value()
	assert.False(t, o.DirtyFor(0, 0), "reading never changes the flag")

	o.SetFloat(3)
	assert.True(t, o.DirtyFor(0, 0), "a write outside compute leaves the port dirty")

	o.CleanFor(0, 0)
	assert.False(t, o.DirtyFor(0, 0))
	assert.True(t, o.Value().Equal(value.Float(3)))
}

func TestInputDescriptors(t *testing.T) {
	in := NewInput("A", value.Vec3(1, 2, 3))
	assert.Equal(t, value.TypeVec3, in.Type)
	assert.False(t, in.Multi)

	multi := NewMulti("Values", value.TypeFloat)
	assert.True(t, multi.Multi)
	assert.True(t, multi.Default.Equal(value.Float(0)))
}
