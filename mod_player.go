package dungeon

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	PlayerSpeed   = 3.0
	PlayerHeight  = 1.8
	PlayerHeadAlt = 1.6
	HeadSize      = (PlayerHeight - PlayerHeadAlt) * 2
	TorsoWidth    = HeadSize * 2
	TorsoHeight   = PlayerHeadAlt / 2

	colorBodyHex = "A1C084"
	colorHeadHex = "F6F740"
)

var (
	PlayerInitialPosition = mgl32.Vec3{-5, PlayerHeight / 2, -4}
	PlayerInitialTarget   = mgl32.Vec3{0, PlayerHeight / 2, 0}
	// ThirdPersonOffset is where the third-person camera starts, in head space.
	ThirdPersonOffset = mgl32.Vec3{0, 2, 5}
)

// PlayerComponent sits on the body node and names the rest of the rig.
type PlayerComponent struct {
	Torso             EntityId
	Head              EntityId
	FirstPersonCamera EntityId
	ThirdPersonCamera EntityId
}

// PlayerRig is the resolved set of rig nodes.
type PlayerRig struct {
	Body EntityId
	PlayerComponent
}

type PlayerModule struct {
	Speed float32
}

func (mod PlayerModule) Install(app *App, cmd *Commands) {
	assets, ok := GetResource[AssetServer](app)
	if !ok {
		panic("PlayerModule needs AssetServerModule installed first")
	}
	speed := mod.Speed
	if speed <= 0 {
		speed = PlayerSpeed
	}
	rig := SpawnPlayer(cmd, assets, speed)
	cmd.Logger().Infof("player spawned: body=%d head=%d", rig.Body, rig.Head)
}

// SpawnPlayer builds the body/head/camera rig:
//
//	body (MoveController)
//	├── torso
//	└── head (HeadState)
//	    ├── first-person camera (inactive)
//	    └── third-person camera (active)
func SpawnPlayer(cmd *Commands, assets *AssetServer, speed float32) PlayerRig {
	bodyMat := assets.CreateMaterial(mustColor(colorBodyHex))
	headMat := assets.CreateMaterial(mustColor(colorHeadHex))

	body := cmd.AddEntity()
	torso := cmd.AddEntity(
		NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()),
		TransformComponent{},
		Parent{Entity: body},
		MeshComponent{
			Mesh:     assets.CreateBoxMesh(mgl32.Vec3{TorsoWidth, TorsoHeight, HeadSize}),
			Material: bodyMat,
		},
	)
	head := cmd.AddEntity(
		NewLocalTransform(mgl32.Vec3{0, PlayerHeadAlt - PlayerHeight/2, 0}, mgl32.QuatIdent()),
		TransformComponent{},
		Parent{Entity: body},
		HeadState{},
		MeshComponent{
			Mesh:     assets.CreateCubeMesh(HeadSize),
			Material: headMat,
		},
	)
	fp := cmd.AddEntity(
		NewLocalTransform(mgl32.Vec3{0, 0, -HeadSize / 2}, mgl32.QuatIdent()),
		TransformComponent{},
		Parent{Entity: head},
		CameraComponent{Active: false, Mode: FirstPerson, Fov: 60},
	)
	tpPose, _ := ThirdPersonFromTranslation(ThirdPersonOffset)
	tp := cmd.AddEntity(
		tpPose,
		TransformComponent{},
		Parent{Entity: head},
		CameraComponent{Active: true, Mode: ThirdPerson, Fov: 60},
	)

	player := PlayerComponent{
		Torso:             torso,
		Head:              head,
		FirstPersonCamera: fp,
		ThirdPersonCamera: tp,
	}
	cmd.AddComponents(body,
		NewLocalTransform(PlayerInitialPosition, LookingAt(PlayerInitialPosition, PlayerInitialTarget, mgl32.Vec3{0, 1, 0})),
		TransformComponent{},
		player,
		MoveController{Speed: speed, Head: head, HasHead: true},
	)

	return PlayerRig{Body: body, PlayerComponent: player}
}

// FindPlayerRig returns the single player rig. A missing or partial rig means
// the scene is broken and panics.
func FindPlayerRig(cmd *Commands) PlayerRig {
	var rig PlayerRig
	found := 0
	MakeQuery1[PlayerComponent](cmd).Map(func(eid EntityId, p *PlayerComponent) bool {
		rig = PlayerRig{Body: eid, PlayerComponent: *p}
		found++
		return true
	})
	if found != 1 {
		panic(fmt.Sprintf("expected one player rig, found %d", found))
	}
	for name, eid := range map[string]EntityId{
		"torso":               rig.Torso,
		"head":                rig.Head,
		"first-person camera": rig.FirstPersonCamera,
		"third-person camera": rig.ThirdPersonCamera,
	} {
		if !HasEntity(cmd, eid) {
			panic(fmt.Sprintf("player rig: %s node %d is missing", name, eid))
		}
	}
	return rig
}

// ActiveCamera returns the rig camera that currently feeds the view.
func ActiveCamera(cmd *Commands) EntityId {
	rig := FindPlayerRig(cmd)
	if mustCamera(cmd, rig.FirstPersonCamera).Active {
		return rig.FirstPersonCamera
	}
	return rig.ThirdPersonCamera
}
