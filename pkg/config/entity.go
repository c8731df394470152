package config

// Key identifies an entity by kind and name. Two declarations with the same
// name but different kinds are distinct entities.
type Key struct {
	Kind Kind
	Name string
}

func (k Key) String() string {
	if k.Kind == KindInterfaces {
		return "interfaces"
	}
	return k.Kind.String() + ":" + k.Name
}

// InterfacesKey is the synthetic referrer recorded against filters that are
// applied as input or output filters under the interfaces hierarchy.
var InterfacesKey = Key{Kind: KindInterfaces, Name: "interfaces"}

// Entity is one named configuration object and its dependency links. An
// entity comes into being either when its declaration is read or, as an
// undeclared placeholder, when something first references it.
type Entity struct {
	Kind Kind
	Name string

	// Inactive is true when the most recent declaration carried the
	// "inactive:" marker. A later active declaration clears it.
	Inactive bool

	// Common is true once any declaration of the entity was seen in a
	// common (shared baseline) source. It never reverts.
	Common bool

	// Declared is false for placeholders created by a dangling reference.
	Declared bool

	// ActiveNeighbors counts neighbor statements in a group body that are
	// active, counted per declaration with the latest declaration winning.
	// Zero for every other kind.
	ActiveNeighbors int

	// References holds the keys this entity's body refers to, in extraction
	// order. ReferencedBy is the reverse view, maintained alongside it.
	References   []Key
	ReferencedBy []Key

	// Body holds the declaration's raw lines, opener through closing brace,
	// from the most recent declaration.
	Body []string
}

func (e *Entity) Key() Key {
	return Key{Kind: e.Kind, Name: e.Name}
}

// Missing reports whether the entity is a placeholder that was referenced
// but never declared.
func (e *Entity) Missing() bool {
	return !e.Declared
}

// Deletable reports whether the entity's kind permits deletion in its
// current state. Only groups carry a condition; everything else is
// unconditionally deletable.
func (e *Entity) Deletable() bool {
	spec, ok := kindTable[e.Kind]
	if !ok {
		return false
	}
	if spec.deletable == nil {
		return true
	}
	return spec.deletable(e)
}
