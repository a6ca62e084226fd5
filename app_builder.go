package dungeon

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: NewApp()}
}

// UseStates must be called before Build so modules can register stateful systems.
func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.useStates(initialState, finalState)
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

func (b *AppBuilder) Build() *App {
	app := b.app
	app.UseModules(b.modules...)
	// Entities spawned while installing become visible to the first frame.
	app.FlushCommands()
	return app
}
