package symbols

// GlobalSymbol identifies a resolved global: a constant, a class, or one of
// the handful of well-known pseudo-symbols the lowering pass must recognize
// by identity (spec §3 Alias, §4.3 ConstantLit/Array/Hash/Rescue).
type GlobalSymbol struct {
	Name string
	ID   int
}

// Well-known symbols the walker special-cases. Namer/resolver output is
// expected to use these exact identities; the lowering pass never invents
// new global symbols, only locals aliasing them.
var (
	// Untyped is aliased in place of a symbol the namer/resolver could not
	// resolve to a real constant (the "stub module" placeholder).
	Untyped = GlobalSymbol{Name: "<untyped>", ID: -1}
	// MagicModule is the compiler-internal receiver for array/hash literal
	// construction (spec GLOSSARY "Magic module").
	MagicModule = GlobalSymbol{Name: "<magic>", ID: -2}
	// StandardError is substituted for a rescue clause with no explicit
	// exception classes.
	StandardError = GlobalSymbol{Name: "StandardError", ID: -3}
	// TModule is the receiver identity the walker checks to special-case
	// T.absurd.
	TModule = GlobalSymbol{Name: "T", ID: -4}
)
