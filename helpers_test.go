package dungeon

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func vecNear(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		if math.Abs(float64(want[i]-got[i])) > eps {
			require.Fail(t, fmt.Sprintf("vectors differ: want %v, got %v", want, got), msgAndArgs...)
		}
	}
}

func quatNear(t *testing.T, want, got mgl32.Quat) {
	t.Helper()
	// q and -q are the same rotation
	d := float64(want.Dot(got))
	if math.Abs(math.Abs(d)-1) > eps {
		require.Failf(t, "rotations differ", "want %v, got %v", want, got)
	}
}

func deg(rad float32) float64 {
	return float64(mgl32.RadToDeg(rad))
}

// newRigApp builds a headless app with the player rig installed.
func newRigApp(t *testing.T) (*App, *Commands, PlayerRig) {
	t.Helper()
	app := NewAppBuilder().
		UseStates(StateStart, StateExit).
		UseModule(
			InputModule{},
			CaptureModule{},
			ControllerModule{},
			AssetServerModule{},
			CameraModeModule{},
			PlayerModule{},
			HierarchyModule{},
		).
		Build()
	cmd := app.Commands()
	return app, cmd, FindPlayerRig(cmd)
}

func resource[T any](t *testing.T, app *App) *T {
	t.Helper()
	r, ok := GetResource[T](app)
	require.True(t, ok)
	return r
}
