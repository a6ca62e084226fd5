package dungeon

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrHierarchyCycle = errors.New("hierarchy cycle")

// maxHierarchyDepth bounds ancestor walks; a deeper chain can only be a cycle.
const maxHierarchyDepth = 64

// LocalTransform is the pose of a node in its parent's space (world space for roots).
// A zero Scale or Rotation is read as identity.
type LocalTransform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// TransformComponent caches the world pose. It is refreshed in PostUpdate; use
// WorldPose for an up to date value inside the simulation.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Parent links a node to its owner. Destroying the owner destroys the node.
type Parent struct {
	Entity EntityId
}

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func NewLocalTransform(position mgl32.Vec3, rotation mgl32.Quat) LocalTransform {
	return LocalTransform{
		Position: position,
		Rotation: rotation,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t LocalTransform) rotation() mgl32.Quat {
	if t.Rotation == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return t.Rotation
}

func (t LocalTransform) scale() mgl32.Vec3 {
	if t.Scale == (mgl32.Vec3{}) {
		return mgl32.Vec3{1, 1, 1}
	}
	return t.Scale
}

// compose returns child expressed in the space parent lives in:
// pos = parent.pos + parent.rot*(parent.scale*child.pos), rot = parent.rot*child.rot.
func compose(parent, child LocalTransform) LocalTransform {
	ps := parent.scale()
	pr := parent.rotation()
	cs := child.scale()
	scaled := mgl32.Vec3{
		child.Position.X() * ps.X(),
		child.Position.Y() * ps.Y(),
		child.Position.Z() * ps.Z(),
	}
	return LocalTransform{
		Position: parent.Position.Add(pr.Rotate(scaled)),
		Rotation: pr.Mul(child.rotation()).Normalize(),
		Scale:    mgl32.Vec3{ps.X() * cs.X(), ps.Y() * cs.Y(), ps.Z() * cs.Z()},
	}
}

func mustLocal(cmd *Commands, node EntityId) *LocalTransform {
	local, ok := GetComponent[LocalTransform](cmd, node)
	if !ok {
		panic(fmt.Sprintf("node %d has no LocalTransform", node))
	}
	return local
}

// SetLocal overwrites the pose of node relative to its parent. Scale is kept.
func SetLocal(cmd *Commands, node EntityId, position mgl32.Vec3, rotation mgl32.Quat) {
	local := mustLocal(cmd, node)
	local.Position = position
	local.Rotation = rotation
}

// WorldPose folds the ancestor chain of node from the root down.
func WorldPose(cmd *Commands, node EntityId) (mgl32.Vec3, mgl32.Quat) {
	world := worldTransform(cmd, node)
	return world.Position, world.Rotation
}

func worldTransform(cmd *Commands, node EntityId) LocalTransform {
	chain := []LocalTransform{*mustLocal(cmd, node)}
	current := node
	for {
		parent, ok := GetComponent[Parent](cmd, current)
		if !ok {
			break
		}
		if len(chain) > maxHierarchyDepth {
			panic(fmt.Errorf("node %d: %w", node, ErrHierarchyCycle))
		}
		current = parent.Entity
		chain = append(chain, *mustLocal(cmd, current))
	}

	world := chain[len(chain)-1]
	for i := len(chain) - 2; i >= 0; i-- {
		world = compose(world, chain[i])
	}
	world.Rotation = world.rotation()
	world.Scale = world.scale()
	return world
}

// Attach makes parent the owner of child. Linking a node below itself or one of
// its descendants is rejected. Links queued earlier in the same stage count.
func Attach(cmd *Commands, child, parent EntityId) error {
	if child == parent {
		return fmt.Errorf("attach %d to itself: %w", child, ErrHierarchyCycle)
	}
	current := parent
	for depth := 0; ; depth++ {
		if depth > maxHierarchyDepth {
			return fmt.Errorf("attach %d to %d: %w", child, parent, ErrHierarchyCycle)
		}
		p, ok := parentOf(cmd, current)
		if !ok {
			break
		}
		if p == child {
			return fmt.Errorf("attach %d to its descendant %d: %w", child, parent, ErrHierarchyCycle)
		}
		current = p
	}

	if slot := queuedParent(cmd.app, child); slot != nil {
		*slot = Parent{Entity: parent}
		return nil
	}
	if link, ok := GetComponent[Parent](cmd, child); ok {
		link.Entity = parent
		return nil
	}
	cmd.AddComponents(child, Parent{Entity: parent})
	return nil
}

// parentOf reads the link of node as it will be after the next flush.
func parentOf(cmd *Commands, node EntityId) (EntityId, bool) {
	if slot := queuedParent(cmd.app, node); slot != nil {
		return (*slot).(Parent).Entity, true
	}
	if link, ok := GetComponent[Parent](cmd, node); ok {
		return link.Entity, true
	}
	return 0, false
}

// queuedParent finds the newest Parent buffered for node. Component adds are
// applied after entity inserts, so they are searched first.
func queuedParent(app *App, node EntityId) *any {
	for _, queue := range [][]pendingAdd{app.pendingCompAdds, app.pendingAdditions} {
		for i := len(queue) - 1; i >= 0; i-- {
			if queue[i].eid != node {
				continue
			}
			components := queue[i].components
			for j := range components {
				if _, ok := components[j].(Parent); ok {
					return &components[j]
				}
			}
		}
	}
	return nil
}

// Children lists the direct children of node.
func Children(cmd *Commands, node EntityId) []EntityId {
	var children []EntityId
	MakeQuery1[Parent](cmd).Map(func(eid EntityId, parent *Parent) bool {
		if parent.Entity == node {
			children = append(children, eid)
		}
		return true
	})
	return children
}

// DespawnRecursive removes node and its whole subtree at the next flush.
func DespawnRecursive(cmd *Commands, node EntityId) {
	for _, child := range Children(cmd, node) {
		DespawnRecursive(cmd, child)
	}
	cmd.RemoveEntity(node)
}

func TransformHierarchySystem(cmd *Commands) {
	MakeQuery2[LocalTransform, TransformComponent](cmd).Map(func(eid EntityId, _ *LocalTransform, tr *TransformComponent) bool {
		world := worldTransform(cmd, eid)
		tr.Position = world.Position
		tr.Rotation = world.Rotation
		tr.Scale = world.Scale
		return true
	})
}

// Forward is the -Z axis of rot.
func Forward(rot mgl32.Quat) mgl32.Vec3 {
	return rot.Rotate(mgl32.Vec3{0, 0, -1})
}

func Right(rot mgl32.Quat) mgl32.Vec3 {
	return rot.Rotate(mgl32.Vec3{1, 0, 0})
}

func Up(rot mgl32.Quat) mgl32.Vec3 {
	return rot.Rotate(mgl32.Vec3{0, 1, 0})
}
