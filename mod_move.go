package dungeon

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MoveController drives the node it is attached to. When HasHead is set, Head
// names the child that carries the HeadState; its yaw is folded into this node
// before every move so the body walks where the head looks.
type MoveController struct {
	Speed   float32
	Head    EntityId
	HasHead bool
}

// ControllerModule registers the look and move systems, in that order, in the
// fixed Simulate stage.
type ControllerModule struct {
	Look LookSettings
}

func (mod ControllerModule) Install(app *App, cmd *Commands) {
	settings := mod.Look
	if settings.Sensitivity == 0 {
		settings = LookSettings{Sensitivity: 100, Mode: LookPerViewport}
	}
	cmd.AddResources(&settings)

	app.UseSystem(
		System(PlayerLookSystem).
			InStage(Simulate).
			RunAlways(),
	)
	app.UseSystem(
		System(PlayerMoveSystem).
			InStage(Simulate).
			RunAlways(),
	)
}

// RehomeYaw moves the head's yaw onto the body: the body turns about world +Y,
// the head keeps only its pitch. Pitch stays on the head. Returns false when
// there was no yaw to move.
func RehomeYaw(body *LocalTransform, head *HeadState, headLocal *LocalTransform) bool {
	if head.Yaw == 0 {
		return false
	}
	body.Rotation = mgl32.QuatRotate(head.Yaw, mgl32.Vec3{0, 1, 0}).Mul(body.rotation()).Normalize()
	head.Yaw = 0
	headLocal.Rotation = head.Rotation()
	return true
}

// MoveStep advances local along its own basis. intent is +Z forward, +X right,
// +Y up; a zero intent is a no-op.
func MoveStep(local *LocalTransform, intent mgl32.Vec3, speed, dt float32) bool {
	if intent == (mgl32.Vec3{}) {
		return false
	}
	rot := local.rotation()
	direction := Forward(rot).Mul(intent.Z()).
		Add(Right(rot).Mul(intent.X())).
		Add(Up(rot).Mul(intent.Y()))
	if direction.Len() == 0 {
		return false
	}
	local.Position = local.Position.Add(direction.Normalize().Mul(speed * dt))
	return true
}

func PlayerMoveSystem(cmd *Commands, input *Input, bindings *Bindings, capture *MouseCapture, t *Time) {
	if !capture.Captured() {
		return
	}
	intent := SampleMoveIntent(input, *bindings)
	if intent == (mgl32.Vec3{}) {
		return
	}
	dt := t.FixedDeltaSeconds()

	MakeQuery2[MoveController, LocalTransform](cmd).Map(func(eid EntityId, mc *MoveController, local *LocalTransform) bool {
		if mc.HasHead {
			head, ok := GetComponent[HeadState](cmd, mc.Head)
			if !ok {
				panic("move controller head has no HeadState")
			}
			RehomeYaw(local, head, mustLocal(cmd, mc.Head))
		}
		MoveStep(local, intent, mc.Speed, dt)
		return true
	})
}
