package dungeon

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformHierarchy(t *testing.T) {
	app := NewApp()
	app.UseModules(HierarchyModule{})

	cmd := app.Commands()

	parent := cmd.AddEntity(
		NewLocalTransform(mgl32.Vec3{10, 0, 0}, mgl32.QuatIdent()),
		TransformComponent{},
	)
	child := cmd.AddEntity(
		Parent{Entity: parent},
		NewLocalTransform(mgl32.Vec3{0, 5, 0}, mgl32.QuatIdent()),
		TransformComponent{},
	)
	grandchild := cmd.AddEntity(
		Parent{Entity: child},
		NewLocalTransform(mgl32.Vec3{0, 0, 2}, mgl32.QuatIdent()),
		TransformComponent{},
	)

	app.FlushCommands()
	TransformHierarchySystem(cmd)

	childWorld, _ := GetComponent[TransformComponent](cmd, child)
	grandchildWorld, _ := GetComponent[TransformComponent](cmd, grandchild)

	if childWorld.Position != (mgl32.Vec3{10, 5, 0}) {
		t.Errorf("Child position incorrect: expected (10, 5, 0), got %v", childWorld.Position)
	}
	if grandchildWorld.Position != (mgl32.Vec3{10, 5, 2}) {
		t.Errorf("Grandchild position incorrect: expected (10, 5, 2), got %v", grandchildWorld.Position)
	}

	// Rotate parent 90 deg around Y: the child's +Z offset turns into +X.
	SetLocal(cmd, parent, mgl32.Vec3{10, 0, 0}, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	TransformHierarchySystem(cmd)

	vecNear(t, mgl32.Vec3{12, 5, 0}, grandchildWorld.Position)
	quatNear(t, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}), grandchildWorld.Rotation)
}

func TestWorldPose_ScaleAndZeroValues(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	root := cmd.AddEntity(LocalTransform{Position: mgl32.Vec3{1, 0, 0}, Scale: mgl32.Vec3{2, 2, 2}})
	leaf := cmd.AddEntity(LocalTransform{Position: mgl32.Vec3{0, 1, 0}}, Parent{Entity: root})
	app.FlushCommands()

	pos, rot := WorldPose(cmd, leaf)
	vecNear(t, mgl32.Vec3{1, 2, 0}, pos)
	quatNear(t, mgl32.QuatIdent(), rot)
}

func TestWorldPose_RootIsLocal(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	rot := mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0})
	root := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{3, 4, 5}, rot))
	app.FlushCommands()

	pos, got := WorldPose(cmd, root)
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, pos)
	quatNear(t, rot, got)
}

func TestAttach_RejectsCycles(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	a := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()))
	b := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()), Parent{Entity: a})
	c := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()), Parent{Entity: b})
	app.FlushCommands()

	err := Attach(cmd, a, a)
	assert.True(t, errors.Is(err, ErrHierarchyCycle))

	err = Attach(cmd, a, c)
	assert.ErrorIs(t, err, ErrHierarchyCycle)

	// re-parenting inside the tree is fine
	require.NoError(t, Attach(cmd, c, a))
	link, ok := GetComponent[Parent](cmd, c)
	require.True(t, ok)
	assert.Equal(t, a, link.Entity)

	d := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()))
	app.FlushCommands()
	require.NoError(t, Attach(cmd, d, c))
	app.FlushCommands()
	assert.ElementsMatch(t, []EntityId{d}, Children(cmd, c))
}

func TestAttach_SeesLinksQueuedThisStage(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	a := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()))
	b := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()))
	app.FlushCommands()

	require.NoError(t, Attach(cmd, a, b))
	assert.ErrorIs(t, Attach(cmd, b, a), ErrHierarchyCycle)

	// an entity spawned with a link this stage is seen too
	c := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()), Parent{Entity: a})
	assert.ErrorIs(t, Attach(cmd, b, c), ErrHierarchyCycle)

	// re-attaching before the flush rewrites the queued link
	require.NoError(t, Attach(cmd, c, b))
	app.FlushCommands()

	link, ok := GetComponent[Parent](cmd, a)
	require.True(t, ok)
	assert.Equal(t, b, link.Entity)
	link, ok = GetComponent[Parent](cmd, c)
	require.True(t, ok)
	assert.Equal(t, b, link.Entity)
	_, ok = GetComponent[Parent](cmd, b)
	assert.False(t, ok)
	assert.ElementsMatch(t, []EntityId{a, c}, Children(cmd, b))
}

func TestDespawnRecursive(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	root := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()))
	child := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()), Parent{Entity: root})
	grandchild := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()), Parent{Entity: child})
	sibling := cmd.AddEntity(NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()))
	app.FlushCommands()

	DespawnRecursive(cmd, root)
	app.FlushCommands()

	for _, eid := range []EntityId{root, child, grandchild} {
		assert.False(t, HasEntity(cmd, eid), "entity %d should be gone", eid)
	}
	assert.True(t, HasEntity(cmd, sibling))
}

func TestWorldPose_MissingLocalPanics(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	eid := cmd.AddEntity(TransformComponent{})
	app.FlushCommands()

	assert.Panics(t, func() { WorldPose(cmd, eid) })
}

func TestBasis(t *testing.T) {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	vecNear(t, mgl32.Vec3{-1, 0, 0}, Forward(yaw))
	vecNear(t, mgl32.Vec3{0, 0, -1}, Right(yaw))
	vecNear(t, mgl32.Vec3{0, 1, 0}, Up(yaw))
}
