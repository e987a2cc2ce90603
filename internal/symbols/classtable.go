package symbols

// VariableKind distinguishes the two unresolved-identifier forms the
// lowering pass must turn into locals (spec §3 UnresolvedIdent, §4.2).
type VariableKind int

const (
	InstanceVariable VariableKind = iota
	ClassVariable
)

// ClassInfo is the read-only view of a class's declared fields the namer
// and resolver have already produced (spec §1: name resolution is an
// external collaborator). The lowering pass never declares fields itself;
// it only asks whether one exists anywhere in the ancestor chain.
type ClassInfo struct {
	Name            string
	Superclass      *ClassInfo
	InstanceFields  map[string]bool
	ClassFields     map[string]bool
	AttachedClassOf *ClassInfo // for singleton classes, the class they singleton
}

// HasField reports whether name is declared as kind anywhere in the
// ancestor chain starting at c, walking through attached-class singletons
// for class variables the same way the original resolves `@@x` through a
// singleton's attached class (builder_walk.cc unresolvedIdent2Local).
func (c *ClassInfo) HasField(name string, kind VariableKind) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		fields := cur.InstanceFields
		if kind == ClassVariable {
			fields = cur.ClassFields
		}
		if fields[name] {
			return true
		}
		if kind == ClassVariable && cur.AttachedClassOf != nil {
			if cur.AttachedClassOf.HasField(name, kind) {
				return true
			}
		}
	}
	return false
}
