package dungeon

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int
type set[T comparable] = map[T]struct{}

// Ecs stores entities grouped by archetype: the sorted set of their component types.
type Ecs struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	componentIdCounterLock sync.Mutex
	componentIdCounter     componentId
	componentTypeIdMap     map[reflect.Type]componentId
	componentIdTypeMap     map[componentId]reflect.Type
}

func MakeEcs() Ecs {
	return Ecs{
		archetypes:         make(map[archetypeId]*archetype),
		entityIndex:        make(map[EntityId]archetypeId),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

type archetype struct {
	id            archetypeId
	key           archetypeKey
	entities      map[EntityId]row
	componentData map[componentId]any // typed slices via reflection
	recycled      []row
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	return ecs.insertEntity(ecs.nextEntityId(), components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	archId, arch := ecs.getOrMakeArchetype(ecs.getArchetypeKey(components...))

	r := ecs.archetypeReserveRow(arch)
	arch.entities[entityId] = r
	for _, component := range components {
		ecs.writeComponent(arch, r, component)
	}
	ecs.entityIndex[entityId] = archId

	return entityId
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, ok := ecs.entityIndex[entityId]
	return ok
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	if !ecs.hasEntity(entityId) {
		return
	}
	ecs.recycleEntity(entityId)
}

// addComponents moves the entity into the archetype extended with the given
// components. Components already present are overwritten in place.
func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	srcArchId, ok := ecs.entityIndex[entityId]
	if !ok {
		return
	}
	srcArch := ecs.archetypes[srcArchId]
	srcRow := srcArch.entities[entityId]

	dstKey := combineArchetypeKeys(srcArch.key, ecs.getArchetypeKey(components...))
	dstArchId, dstArch := ecs.getOrMakeArchetype(dstKey)
	if dstArchId == srcArchId {
		for _, component := range components {
			ecs.writeComponent(srcArch, srcRow, component)
		}
		return
	}

	dstRow := ecs.archetypeReserveRow(dstArch)
	ecs.moveComponents(srcArch, srcRow, dstArch, dstRow)
	for _, component := range components {
		ecs.writeComponent(dstArch, dstRow, component)
	}

	ecs.recycleEntity(entityId)
	dstArch.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dstArchId
}

func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	srcArchId, ok := ecs.entityIndex[entityId]
	if !ok {
		return
	}
	srcArch := ecs.archetypes[srcArchId]
	srcRow := srcArch.entities[entityId]

	removeSet := make(set[componentId])
	for _, c := range components {
		removeSet[ecs.getComponentId(componentType(c))] = struct{}{}
	}

	dstKey := make(archetypeKey, 0, len(srcArch.key))
	for _, compId := range srcArch.key {
		if _, shouldRemove := removeSet[compId]; !shouldRemove {
			dstKey = append(dstKey, compId)
		}
	}

	dstArchId, dstArch := ecs.getOrMakeArchetype(dstKey)
	if dstArchId == srcArchId {
		return
	}
	dstRow := ecs.archetypeReserveRow(dstArch)

	ecs.moveComponents(srcArch, srcRow, dstArch, dstRow)
	ecs.recycleEntity(entityId)

	dstArch.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dstArchId
}

// moveComponents copies every component the two archetypes have in common.
func (ecs *Ecs) moveComponents(srcArch *archetype, srcRow row, dstArch *archetype, dstRow row) {
	for _, compId := range srcArch.key {
		dstData, ok := dstArch.componentData[compId]
		if !ok {
			continue
		}
		srcValue := reflectSliceGet(srcArch.componentData[compId], int(srcRow))
		reflectSliceSet(dstData, int(dstRow), srcValue)
	}
}

func (ecs *Ecs) writeComponent(dstArch *archetype, dstRow row, component any) {
	reflectValue := reflect.ValueOf(component)
	if reflectValue.Kind() == reflect.Pointer {
		reflectValue = reflectValue.Elem()
	}
	if reflectValue.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got %s", reflectValue.Kind()))
	}

	compId := ecs.getComponentId(reflectValue.Type())
	reflectSliceSet(dstArch.componentData[compId], int(dstRow), reflectValue)
}

func (ecs *Ecs) recycleEntity(entityId EntityId) {
	arch := ecs.archetypes[ecs.entityIndex[entityId]]

	r := arch.entities[entityId]
	arch.recycled = append(arch.recycled, r)

	// Zero the freed row so stale pointers held in components do not outlive the entity.
	for _, compId := range arch.key {
		reflectSliceSet(arch.componentData[compId], int(r), reflect.Zero(ecs.componentIdTypeMap[compId]))
	}

	delete(arch.entities, entityId)
	delete(ecs.entityIndex, entityId)
}

func (ecs *Ecs) getOrMakeArchetype(key archetypeKey) (archetypeId, *archetype) {
	id := getArchetypeId(key)

	if arch, ok := ecs.archetypes[id]; ok {
		return id, arch
	}

	arch := &archetype{
		id:            id,
		key:           key,
		entities:      make(map[EntityId]row),
		componentData: make(map[componentId]any),
	}
	for _, compId := range arch.key {
		arch.componentData[compId] = reflectSliceMake(ecs.componentIdTypeMap[compId])
	}

	ecs.archetypes[id] = arch
	return id, arch
}

func (ecs *Ecs) archetypeReserveRow(arch *archetype) row {
	if n := len(arch.recycled); n > 0 {
		r := arch.recycled[n-1]
		arch.recycled = arch.recycled[:n-1]
		return r
	}

	r := row(len(arch.entities))
	for _, compId := range arch.key {
		arch.componentData[compId] = reflectSliceAppend(
			arch.componentData[compId],
			reflect.Zero(ecs.componentIdTypeMap[compId]),
		)
	}
	return r
}

// getArchetypeKey returns the canonical key: sorted, deduplicated component ids.
// The archetype id is a hash of the key, cheaper to compare but collision prone.
func (ecs *Ecs) getArchetypeKey(components ...any) archetypeKey {
	var res archetypeKey

	for _, component := range components {
		compType := componentType(component)
		if compType.Kind() != reflect.Struct {
			panic("component should be a struct")
		}
		res = append(res, ecs.getComponentId(compType))
	}

	return dedupAndSortArchetypeKey(res)
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func combineArchetypeKeys(a archetypeKey, b archetypeKey) archetypeKey {
	combined := make(archetypeKey, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	return dedupAndSortArchetypeKey(combined)
}

func dedupAndSortArchetypeKey(key archetypeKey) archetypeKey {
	res := slices.Clone(key)
	slices.Sort(res)
	return slices.Compact(res)
}

func getArchetypeId(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	b := make([]byte, 8)
	for _, compId := range key {
		binary.LittleEndian.PutUint64(b, uint64(compId))
		hash.Write(b)
	}
	return archetypeId(hash.Sum64())
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1

	return id
}

func (ecs *Ecs) getComponentId(t reflect.Type) componentId {
	ecs.componentIdCounterLock.Lock()
	defer ecs.componentIdCounterLock.Unlock()

	if id, ok := ecs.componentTypeIdMap[t]; ok {
		return id
	}

	id := ecs.componentIdCounter
	ecs.componentIdCounter += 1
	ecs.componentTypeIdMap[t] = id
	ecs.componentIdTypeMap[id] = t

	return id
}

func (ecs *Ecs) getComponentType(id componentId) reflect.Type {
	if t, ok := ecs.componentIdTypeMap[id]; ok {
		return t
	}
	panic("ComponentID not registered")
}
