package dungeon

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PitchLimit keeps the head strictly inside ±90° so the view never flips.
const PitchLimit = float32(0.9 * math.Pi / 2)

// HeadState holds the accumulated look angles of a node, in radians. The node's
// local rotation is always HeadState.Rotation(); nothing else writes it.
type HeadState struct {
	Yaw   float32
	Pitch float32
}

type LookMode int

const (
	// LookPerUnit scales raw motion units: Sensitivity is degrees per unit.
	LookPerUnit LookMode = iota
	// LookPerViewport scales by the fraction of the window crossed: Sensitivity
	// is degrees per window width (or height).
	LookPerViewport
)

type LookSettings struct {
	Sensitivity float32
	Mode        LookMode
}

// Rotation is yaw about Y, then pitch about the yawed X, with no roll.
func (h HeadState) Rotation() mgl32.Quat {
	return mgl32.QuatRotate(h.Yaw, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(h.Pitch, mgl32.Vec3{1, 0, 0}))
}

// ApplyLook integrates one tick of mouse motion into state and returns the new
// local rotation. A zero delta leaves state untouched and reports false.
func ApplyLook(state *HeadState, delta mgl32.Vec2, settings LookSettings, viewport mgl32.Vec2) (mgl32.Quat, bool) {
	if delta == (mgl32.Vec2{}) {
		return mgl32.Quat{}, false
	}

	dx := delta.X() * settings.Sensitivity
	dy := delta.Y() * settings.Sensitivity
	if settings.Mode == LookPerViewport {
		if viewport.X() > 0 {
			dx /= viewport.X()
		}
		if viewport.Y() > 0 {
			dy /= viewport.Y()
		}
	}

	state.Yaw -= mgl32.DegToRad(dx)
	state.Pitch = mgl32.Clamp(state.Pitch-mgl32.DegToRad(dy), -PitchLimit, PitchLimit)
	return state.Rotation(), true
}

// PlayerLookSystem drains the motion queue once per tick. Motion that arrives
// while the cursor is released is thrown away.
func PlayerLookSystem(cmd *Commands, input *Input, capture *MouseCapture, settings *LookSettings) {
	delta := input.DrainMouseMotion()
	if !capture.Captured() {
		return
	}

	viewport := mgl32.Vec2{float32(input.WindowWidth), float32(input.WindowHeight)}
	MakeQuery2[HeadState, LocalTransform](cmd).Map(func(eid EntityId, head *HeadState, local *LocalTransform) bool {
		if rot, ok := ApplyLook(head, delta, *settings, viewport); ok {
			local.Rotation = rot
		}
		return true
	})
}
