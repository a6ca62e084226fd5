package dungeon

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SpectatorModule spawns a free-flying camera instead of the player rig. The
// camera node looks and moves itself: no body, no yaw re-homing, and moving
// forward follows the pitch.
type SpectatorModule struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Speed    float32
}

func (m SpectatorModule) Install(app *App, cmd *Commands) {
	speed := m.Speed
	if speed <= 0 {
		speed = 5
	}
	eid := SpawnSpectator(cmd, m.Position, m.Target, speed)
	cmd.Logger().Infof("spectator camera spawned: %d", eid)
}

// HeadStateFacing returns the look angles that point -Z along dir.
func HeadStateFacing(dir mgl32.Vec3) HeadState {
	if dir.Len() == 0 {
		return HeadState{}
	}
	dir = dir.Normalize()
	yaw := math.Atan2(float64(-dir.X()), float64(-dir.Z()))
	pitch := math.Asin(float64(mgl32.Clamp(dir.Y(), -1, 1)))
	return HeadState{
		Yaw:   float32(yaw),
		Pitch: mgl32.Clamp(float32(pitch), -PitchLimit, PitchLimit),
	}
}

func SpawnSpectator(cmd *Commands, position, target mgl32.Vec3, speed float32) EntityId {
	head := HeadStateFacing(target.Sub(position))
	return cmd.AddEntity(
		NewLocalTransform(position, head.Rotation()),
		TransformComponent{},
		head,
		MoveController{Speed: speed},
		CameraComponent{Active: true, Mode: FirstPerson, Fov: 60},
	)
}
