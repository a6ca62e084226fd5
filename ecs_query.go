package dungeon

import (
	"reflect"
)

// Queries iterate every archetype holding all requested components. Types passed
// as optionals may be missing; their pointer is then nil.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }
type Query4[A, B, C, D any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }
func MakeQuery4[A, B, C, D any](cmd *Commands) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{ecs: cmd.app.ecs}
}

// column resolves the typed storage of one query argument inside an archetype.
// matched is false when the archetype cannot satisfy the query.
func column[T any](arch *archetype, id componentId, opt set[componentId]) (data []T, matched bool) {
	if raw, ok := arch.componentData[id]; ok {
		return raw.([]T), true
	}
	if _, ok := opt[id]; ok {
		return nil, true
	}
	return nil, false
}

func at[T any](data []T, r row) *T {
	if data == nil {
		return nil
	}
	return &data[r]
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	idA := identifyComponent[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		compsA, ok := column[A](arch, idA, opt)
		if !ok {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(compsA, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	idA := identifyComponent[A](q.ecs)
	idB := identifyComponent[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		compsA, okA := column[A](arch, idA, opt)
		compsB, okB := column[B](arch, idB, opt)
		if !okA || !okB {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(compsA, r), at(compsB, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	idA := identifyComponent[A](q.ecs)
	idB := identifyComponent[B](q.ecs)
	idC := identifyComponent[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		compsA, okA := column[A](arch, idA, opt)
		compsB, okB := column[B](arch, idB, opt)
		compsC, okC := column[C](arch, idC, opt)
		if !okA || !okB || !okC {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(compsA, r), at(compsB, r), at(compsC, r)) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	idA := identifyComponent[A](q.ecs)
	idB := identifyComponent[B](q.ecs)
	idC := identifyComponent[C](q.ecs)
	idD := identifyComponent[D](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		compsA, okA := column[A](arch, idA, opt)
		compsB, okB := column[B](arch, idB, opt)
		compsC, okC := column[C](arch, idC, opt)
		compsD, okD := column[D](arch, idD, opt)
		if !okA || !okB || !okC || !okD {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(compsA, r), at(compsB, r), at(compsC, r), at(compsD, r)) {
				return
			}
		}
	}
}

// GetComponent returns a pointer into the storage of one entity's component.
// The pointer is valid until the next command flush.
func GetComponent[T any](cmd *Commands, eid EntityId) (*T, bool) {
	ecs := cmd.app.ecs
	archId, ok := ecs.entityIndex[eid]
	if !ok {
		return nil, false
	}
	arch := ecs.archetypes[archId]
	raw, ok := arch.componentData[identifyComponent[T](ecs)]
	if !ok {
		return nil, false
	}
	return &raw.([]T)[arch.entities[eid]], true
}

// HasEntity reports whether eid has been flushed into the world and not removed.
func HasEntity(cmd *Commands, eid EntityId) bool {
	return cmd.app.ecs.hasEntity(eid)
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}
	return res
}

func identifyComponent[T any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[T]())
}
