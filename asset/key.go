// Package asset holds the namespaced asset registry shared by every
// microgame. Assets are addressed by a (namespace, name) pair instead of a
// concatenated string so that two microgames can both own a "hand" sprite.
package asset

import "strings"

// SharedPrefix marks a name as a friend asset living in the shared namespace.
const SharedPrefix = "@"

// Shared is the namespace used for engine-wide and friend assets.
const Shared = ""

// Key identifies an asset inside the registry.
type Key struct {
	Namespace string
	Name      string
}

// Resolve maps a name as written by a microgame author to its key. Names
// starting with "@" escape to the shared namespace.
func Resolve(namespace, name string) Key {
	if rest, ok := strings.CutPrefix(name, SharedPrefix); ok {
		return Key{Namespace: Shared, Name: rest}
	}
	return Key{Namespace: namespace, Name: name}
}

// SharedKey builds a key in the shared namespace.
func SharedKey(name string) Key {
	return Key{Namespace: Shared, Name: name}
}

func (k Key) IsShared() bool {
	return k.Namespace == Shared
}

func (k Key) String() string {
	if k.IsShared() {
		return SharedPrefix + k.Name
	}
	return k.Namespace + "/" + k.Name
}
