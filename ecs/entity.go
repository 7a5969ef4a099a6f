package ecs

import "fmt"

// Entity packs a 32-bit slot id with a 32-bit generation. Scene objects keep
// their entity after destruction, so a recycled slot must not answer for them.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String renders slot and generation, e.g. "7#2".
func (e Entity) String() string {
	return fmt.Sprintf("%d#%d", e.id(), e.generation())
}

func (e Entity) Valid() bool {
	return e > 0
}
