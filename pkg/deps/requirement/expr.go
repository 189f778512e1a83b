package requirement

import (
	"slices"
	"strings"
)

// Op is the comparison an [Atom] performs against a candidate version.
type Op uint8

const (
	OpExact          Op = iota // v == bound
	OpTilde                    // same major.minor, v >= bound
	OpCaret                    // same major, v >= bound
	OpGreaterOrEqual           // v >= bound
	OpLessThan                 // v < bound
	OpGitRef                   // URL, git or local reference; matches anything
	OpAny                      // "*"; matches anything
)

var opNames = [...]string{
	OpExact:          "exact",
	OpTilde:          "tilde",
	OpCaret:          "caret",
	OpGreaterOrEqual: "gte",
	OpLessThan:       "lt",
	OpGitRef:         "gitref",
	OpAny:            "any",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Atom is a single operator and bound, e.g. "^1.2.3".
type Atom struct {
	Op    Op
	Bound string
}

func (a Atom) String() string {
	switch a.Op {
	case OpTilde:
		return "~" + a.Bound
	case OpCaret:
		return "^" + a.Bound
	case OpGreaterOrEqual:
		return ">=" + a.Bound
	case OpLessThan:
		return "<" + a.Bound
	case OpAny:
		return "*"
	default:
		return a.Bound
	}
}

// Kind tags the variant held by an [Expr].
type Kind uint8

const (
	KindAtom Kind = iota
	KindAnd
	KindOr
)

// Expr is a parsed requirement: an atom, or an AND/OR over child
// expressions. Expr values are immutable; accessors return copies.
type Expr struct {
	kind     Kind
	atom     Atom
	children []Expr
}

// NewAtom returns a leaf expression.
func NewAtom(op Op, bound string) Expr {
	return Expr{kind: KindAtom, atom: Atom{Op: op, Bound: bound}}
}

// And returns the conjunction of children.
func And(children ...Expr) Expr {
	return Expr{kind: KindAnd, children: slices.Clone(children)}
}

// Or returns the disjunction of children.
func Or(children ...Expr) Expr {
	return Expr{kind: KindOr, children: slices.Clone(children)}
}

// Kind returns the variant tag.
func (e Expr) Kind() Kind { return e.kind }

// Atom returns the leaf atom. It is the zero Atom unless Kind is KindAtom.
func (e Expr) Atom() Atom { return e.atom }

// Children returns a copy of the child expressions of an AND or OR node.
func (e Expr) Children() []Expr { return slices.Clone(e.children) }

// Equal reports whether e and o have the same structure.
func (e Expr) Equal(o Expr) bool {
	if e.kind != o.kind || e.atom != o.atom || len(e.children) != len(o.children) {
		return false
	}
	for i := range e.children {
		if !e.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// HasRef reports whether any atom in e is a git, URL or local reference.
// Such requirements carry no version constraint.
func (e Expr) HasRef() bool {
	if e.kind == KindAtom {
		return e.atom.Op == OpGitRef
	}
	return slices.ContainsFunc(e.children, Expr.HasRef)
}

// String renders e in canonical specifier syntax.
func (e Expr) String() string {
	switch e.kind {
	case KindAnd:
		return join(e.children, " ")
	case KindOr:
		return join(e.children, " || ")
	default:
		return e.atom.String()
	}
}

func join(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, c := range es {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}
