package dungeon

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stateful           bool
	stateTransitioning bool
	started            bool
	exitRequested      bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any
	ecs                *Ecs

	// Command Buffering
	pendingAdditions    []pendingAdd
	pendingRemovals     []EntityId
	pendingCompAdds     []pendingAdd
	pendingCompRemovals []pendingAdd
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

// NewApp returns a stateless app with the default stage list.
func NewApp() *App {
	ecs := MakeEcs()
	app := &App{
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
		resources:        make(map[reflect.Type]any),
		ecs:              &ecs,
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Run executes frames until the final state is reached or an exit is requested.
func (app *App) Run() {
	if app.stateful {
		app.Logger().Infof("Running in stateful mode...")
	} else {
		app.Logger().Infof("Running in stateless mode...")
	}

	for !app.Finished() {
		app.Step()
	}

	if app.stateful {
		app.callSystems(app.state, exit)
	}
}

// Step runs one frame: every stage in order, fixed stages once per pending tick,
// then applies a requested state change.
func (app *App) Step() {
	if !app.started {
		app.started = true
		if app.stateful {
			app.state = app.initialState
			app.callSystems(app.state, enter)
		}
	}

	app.callSystems(app.state, execute)

	if app.stateful && app.stateTransitioning {
		app.stateTransitioning = false
		app.executeChangeState(app.nextState)
	}
}

func (app *App) Finished() bool {
	if app.exitRequested {
		return true
	}
	return app.stateful && app.started && app.state == app.finalState
}

func (app *App) requestExit() {
	if app.stateful {
		app.changeState(app.finalState)
		return
	}
	app.exitRequested = true
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		repeat := 1
		if phase == execute && stage.UpdateType == FixedUpdate {
			repeat = app.fixedSteps()
		}

		for i := 0; i < repeat; i++ {
			// On execute, call stateless/always run systems first
			if phase == execute {
				for _, system := range app.systemsStateless[stage.Name] {
					app.callSystem(system)
				}
			}

			if app.stateful {
				for _, system := range app.systems[stage.Name][state][phase] {
					app.callSystem(system)
				}
			}
			app.FlushCommands()
		}
	}
}

func (app *App) fixedSteps() int {
	if t, ok := GetResource[Time](app); ok {
		return t.FixedSteps
	}
	return 1
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if newState == app.state {
		return
	}
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// GetResource returns the resource registered under *T.
func GetResource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem injects *Commands and resources by pointer type.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolvedDependency(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolvedDependency(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolvedDependency(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}

func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 &&
		len(app.pendingCompAdds) == 0 && len(app.pendingCompRemovals) == 0 {
		return
	}

	// Removals first so nothing is added to dead entities.
	for _, eid := range app.pendingRemovals {
		app.Logger().Debugf("FLUSH: Removing entity %v", eid)
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, add := range app.pendingCompAdds {
		app.ecs.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]

	for _, rm := range app.pendingCompRemovals {
		app.ecs.removeComponents(rm.eid, rm.components...)
	}
	app.pendingCompRemovals = app.pendingCompRemovals[:0]
}
