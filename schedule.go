package dungeon

import (
	"fmt"
	"slices"
)

type State int

// Application states of the demo. StateExit is the final state: reaching it ends Run.
const (
	StateStart State = iota
	StateInGame
	StateMenu
	StateExit
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateInGame:
		return "InGame"
	case StateMenu:
		return "Menu"
	case StateExit:
		return "Exit"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type UpdateType int

const (
	FixedUpdate UpdateType = iota
	DynamicUpdate
)

type Stage struct {
	Name       string
	UpdateType UpdateType
}

var (
	Prelude    = Stage{Name: "Prelude", UpdateType: DynamicUpdate}
	PreUpdate  = Stage{Name: "PreUpdate", UpdateType: DynamicUpdate}
	Simulate   = Stage{Name: "Simulate", UpdateType: FixedUpdate}
	Update     = Stage{Name: "Update", UpdateType: DynamicUpdate}
	PostUpdate = Stage{Name: "PostUpdate", UpdateType: DynamicUpdate}
	PreRender  = Stage{Name: "PreRender", UpdateType: DynamicUpdate}
	Render     = Stage{Name: "Render", UpdateType: DynamicUpdate}
	PostRender = Stage{Name: "PostRender", UpdateType: DynamicUpdate}
	Finale     = Stage{Name: "Finale", UpdateType: DynamicUpdate}
)

var defaultStages = []Stage{Prelude, PreUpdate, Simulate, Update, PostUpdate, PreRender, Render, PostRender, Finale}

type statePhase int

const (
	enter   statePhase = 0
	execute statePhase = 1
	exit    statePhase = 2
)

type stateScheduleBuilder struct {
	state  State
	phase  statePhase
	always bool
}

func OnEnter(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: enter}
}

func OnExecute(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: execute}
}

func OnExit(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: exit}
}

func Always() stateScheduleBuilder {
	return stateScheduleBuilder{always: true}
}

type systemScheduleBuilder struct {
	system        systemFn
	inStage       Stage
	runAlways     bool
	inState       State
	inStatePhase  statePhase
	stateProvided bool
}

// System wraps a system function for scheduling; it defaults to the Update stage.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	sched.inStage = s
	return sched
}

func (sched systemScheduleBuilder) InState(s stateScheduleBuilder) systemScheduleBuilder {
	sched.runAlways = s.always
	sched.inState = s.state
	sched.inStatePhase = s.phase
	sched.stateProvided = true
	return sched
}

func (sched systemScheduleBuilder) RunAlways() systemScheduleBuilder {
	sched.runAlways = true
	return sched
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageBefore, target: s}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageAfter, target: s}
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	stageIdx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == where.target.Name })
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}

	insertAt := stageIdx
	if stageAfter == where.position {
		insertAt = stageIdx + 1
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.initStage(stage)

	return app
}

// UseSystem registers a system. Within a stage systems run in registration order.
func (app *App) UseSystem(system systemScheduleBuilder) *App {
	stageName := system.inStage.Name
	if system.runAlways || !system.stateProvided {
		if _, ok := app.systemsStateless[stageName]; ok {
			app.systemsStateless[stageName] = append(app.systemsStateless[stageName], system.system)
			return app
		}
		panic(fmt.Sprintf("Stage %v doesn't exist", stageName))
	}

	if !app.stateful {
		panic("Trying to use a stateful system in a stateless app.")
	}

	systemsInStage, ok := app.systems[stageName]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", stageName))
	}
	systemsInState, ok := systemsInStage[system.inState]
	if !ok {
		panic(fmt.Sprintf("State %v doesn't exist", system.inState))
	}
	systemsInState[system.inStatePhase] = append(systemsInState[system.inStatePhase], system.system)
	return app
}

// useStates turns the app stateful; per-state system tables are built for every stage.
func (app *App) useStates(initialState State, finalState State) {
	app.stateful = true
	app.initialState = initialState
	app.finalState = finalState
	app.state = initialState
	for _, stage := range app.stages {
		app.initStatefulStage(stage)
	}
}

func (app *App) initStage(stage Stage) {
	app.systemsStateless[stage.Name] = make([]systemFn, 0)
	if app.stateful {
		app.initStatefulStage(stage)
	}
}

func (app *App) initStatefulStage(stage Stage) {
	app.systems[stage.Name] = make(map[State]map[statePhase][]systemFn)
	for state := app.initialState; state <= app.finalState; state += 1 {
		app.systems[stage.Name][state] = map[statePhase][]systemFn{
			enter:   {},
			execute: {},
			exit:    {},
		}
	}
}
