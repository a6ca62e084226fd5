package dungeon

// Commands is the handle systems use to touch the world. Structural changes
// (entities, components) are buffered and applied when the current stage ends.
type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

// State returns the current application state. Pending changes are not visible
// until the frame ends.
func (cmd *Commands) State() State {
	return cmd.app.state
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// AddEntity reserves an id right away so callers can wire parent links before the flush.
func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, pendingAdd{
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompAdds = append(cmd.app.pendingCompAdds, pendingAdd{
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompRemovals = append(cmd.app.pendingCompRemovals, pendingAdd{
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pendingRemovals = append(cmd.app.pendingRemovals, entityId)
}

func (cmd *Commands) Flush() {
	cmd.app.FlushCommands()
}

// Exit ends Run after the current frame: stateful apps move to their final state.
func (cmd *Commands) Exit() {
	cmd.app.requestExit()
}
