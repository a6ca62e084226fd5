package dungeon

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type CameraMode int

const (
	ThirdPerson CameraMode = iota
	FirstPerson
)

func (m CameraMode) String() string {
	if m == FirstPerson {
		return "first person"
	}
	return "third person"
}

const (
	MinCameraDistance = 1
	MaxCameraDistance = 200
)

// CameraComponent marks a view. Exactly one camera of the rig is Active.
type CameraComponent struct {
	Active bool
	Mode   CameraMode
	Fov    float32
}

// CameraSettings mirrors the rig cameras for the UI.
type CameraSettings struct {
	Mode              CameraMode
	Distance          float32
	FirstPersonOffset float32
}

type CameraModeModule struct{}

func (CameraModeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&CameraSettings{
		Mode:              ThirdPerson,
		Distance:          ThirdPersonOffset.Len(),
		FirstPersonOffset: -HeadSize / 2,
	})
	app.UseSystem(
		System(SwitchCameraSystem).
			InStage(Update).
			RunAlways(),
	)
}

// LookingAt returns the rotation whose -Z axis points from eye to target with
// +Y as close to up as possible. When up is parallel to the view direction
// another reference axis is used.
func LookingAt(eye, target, up mgl32.Vec3) mgl32.Quat {
	forward := target.Sub(eye)
	if forward.Len() == 0 {
		return mgl32.QuatIdent()
	}
	back := forward.Normalize().Mul(-1)

	right := up.Cross(back)
	for _, alt := range []mgl32.Vec3{{0, 0, -1}, {1, 0, 0}} {
		if right.Len() > 1e-6 {
			break
		}
		right = alt.Cross(back)
	}
	right = right.Normalize()
	trueUp := back.Cross(right)

	basis := mgl32.Mat4{
		right.X(), right.Y(), right.Z(), 0,
		trueUp.X(), trueUp.Y(), trueUp.Z(), 0,
		back.X(), back.Y(), back.Z(), 0,
		0, 0, 0, 1,
	}
	return mgl32.Mat4ToQuat(basis).Normalize()
}

// ReprojectThirdPerson moves a camera orbiting the origin to distance while
// keeping the azimuth and elevation of old. The result looks at the origin.
func ReprojectThirdPerson(old mgl32.Vec3, distance float32) LocalTransform {
	x, y, z := float64(old.X()), float64(old.Y()), float64(old.Z())
	d := float64(distance)
	up := mgl32.Vec3{0, 1, 0}

	var pos mgl32.Vec3
	switch {
	case x == 0 && z == 0:
		// Straight above or below the pivot: +Y cannot serve as up.
		pos = mgl32.Vec3{0, float32(math.Copysign(d, y)), 0}
		up = mgl32.Vec3{0, 0, -1}
	case x == 0:
		tanElevation := y / z
		nz := math.Copysign(math.Sqrt(d*d/(1+tanElevation*tanElevation)), z)
		pos = mgl32.Vec3{0, float32(nz * tanElevation), float32(nz)}
	default:
		tanAzimuth := z / x
		tanElevation2 := y * y / (x*x + z*z)
		nx := math.Copysign(math.Sqrt(d*d/((1+tanAzimuth*tanAzimuth)*(1+tanElevation2))), x)
		nz := nx * tanAzimuth
		ny := math.Copysign(math.Sqrt(tanElevation2*(nx*nx+nz*nz)), y)
		pos = mgl32.Vec3{float32(nx), float32(ny), float32(nz)}
	}

	return NewLocalTransform(pos, LookingAt(pos, mgl32.Vec3{}, up))
}

// ThirdPersonFromTranslation aims a camera placed at t on the origin and
// returns its distance.
func ThirdPersonFromTranslation(t mgl32.Vec3) (LocalTransform, float32) {
	up := mgl32.Vec3{0, 1, 0}
	if t.X() == 0 && t.Z() == 0 {
		up = mgl32.Vec3{0, 0, -1}
	}
	return NewLocalTransform(t, LookingAt(t, mgl32.Vec3{}, up)), t.Len()
}

// SwitchCameraMode activates the camera of mode and deactivates the other one.
func SwitchCameraMode(cmd *Commands, settings *CameraSettings, mode CameraMode) {
	rig := FindPlayerRig(cmd)
	fp := mustCamera(cmd, rig.FirstPersonCamera)
	tp := mustCamera(cmd, rig.ThirdPersonCamera)

	fp.Active = mode == FirstPerson
	tp.Active = mode == ThirdPerson
	if mode == ThirdPerson && settings.Mode != ThirdPerson {
		reprojectCamera(cmd, rig.ThirdPersonCamera, settings.Distance)
	}
	settings.Mode = mode
	cmd.Logger().Infof("camera: %s", mode)
}

// SetThirdPersonDistance clamps distance to [MinCameraDistance, MaxCameraDistance]
// and moves the third-person camera along its current direction.
func SetThirdPersonDistance(cmd *Commands, settings *CameraSettings, distance float32) {
	distance = mgl32.Clamp(distance, MinCameraDistance, MaxCameraDistance)
	settings.Distance = distance
	reprojectCamera(cmd, FindPlayerRig(cmd).ThirdPersonCamera, distance)
}

// SetThirdPersonTranslation places the third-person camera directly. The
// distance follows from the translation; a zero translation is ignored.
func SetThirdPersonTranslation(cmd *Commands, settings *CameraSettings, t mgl32.Vec3) bool {
	if t == (mgl32.Vec3{}) {
		return false
	}
	pose, distance := ThirdPersonFromTranslation(t)
	SetLocal(cmd, FindPlayerRig(cmd).ThirdPersonCamera, pose.Position, pose.Rotation)
	settings.Distance = distance
	return true
}

// SetFirstPersonOffset slides the first-person camera along the head's Z axis,
// staying inside the head.
func SetFirstPersonOffset(cmd *Commands, settings *CameraSettings, offset float32) {
	offset = mgl32.Clamp(offset, -HeadSize/2, HeadSize/2)
	settings.FirstPersonOffset = offset
	local := mustLocal(cmd, FindPlayerRig(cmd).FirstPersonCamera)
	local.Position = mgl32.Vec3{0, 0, offset}
}

func reprojectCamera(cmd *Commands, camera EntityId, distance float32) {
	local := mustLocal(cmd, camera)
	pose := ReprojectThirdPerson(local.Position, distance)
	local.Position = pose.Position
	local.Rotation = pose.Rotation
}

func mustCamera(cmd *Commands, eid EntityId) *CameraComponent {
	cam, ok := GetComponent[CameraComponent](cmd, eid)
	if !ok {
		panic("camera node has no CameraComponent")
	}
	return cam
}

// SwitchCameraSystem toggles the camera mode on the switch key once the game
// has started. Scenes without a player rig have nothing to switch.
func SwitchCameraSystem(cmd *Commands, input *Input, bindings *Bindings, capture *MouseCapture, settings *CameraSettings) {
	if capture.Mode() == StateStart || !bindings.JustPressed(input, ActionSwitchCamera) || !hasPlayerRig(cmd) {
		return
	}
	next := FirstPerson
	if settings.Mode == FirstPerson {
		next = ThirdPerson
	}
	SwitchCameraMode(cmd, settings, next)
}
