// Package grf holds the library of regulation-function templates a node may
// use to compute its next value from its regulators.
package grf

import (
	"strconv"

	"github.com/pkg/errors"
)

var ErrUnknownTemplate = errors.New("unknown regulation template")

// Template is the index of a regulation function. The numbering is canonical:
// solver variables store it as a 5-bit value.
type Template uint8

const (
	Count = 20
	// Bits is the width of a template selector.
	Bits = 5
)

type atom uint8

const (
	allActivators atom = iota
	allRepressors
	noActivators
	noRepressors
)

var atomNames = [...]string{"allActivators", "allRepressors", "noActivators", "noRepressors"}

type exprOp uint8

const (
	exprAtom exprOp = iota
	exprNot
	exprAnd
	exprOr
)

type expr struct {
	op   exprOp
	atom atom
	args []expr
}

func leaf(a atom) expr {
	return expr{op: exprAtom, atom: a}
}

func not(e expr) expr {
	return expr{op: exprNot, args: []expr{e}}
}

func and(a, b expr) expr {
	return expr{op: exprAnd, args: []expr{a, b}}
}

func or(a, b expr) expr {
	return expr{op: exprOr, args: []expr{a, b}}
}

func (a atom) String() string {
	return atomNames[a]
}

var (
	aA  = leaf(allActivators)
	aR  = leaf(allRepressors)
	nA  = leaf(noActivators)
	nR  = leaf(noRepressors)
	naR = not(aR)
	nnA = not(nA)
)

type definition struct {
	body      expr
	threshold bool
	selfBias  bool
}

// Ordered from the AND-gate "all activators and no repressors" to the most
// permissive OR-gate, followed by the two threshold rules.
var definitions = [Count]definition{
	0:  {body: and(aA, nR)},
	1:  {body: and(nnA, nR)},
	2:  {body: and(aA, naR)},
	3:  {body: or(and(nR, nnA), and(naR, aA))},
	4:  {body: aA},
	5:  {body: or(aA, and(nR, nnA))},
	6:  {body: and(nnA, naR)},
	7:  {body: or(and(nnA, naR), aA)},
	8:  {body: nnA},
	9:  {body: nR},
	10: {body: or(nR, and(naR, aA))},
	11: {body: or(nR, and(nnA, naR))},
	12: {body: naR},
	13: {body: or(nR, aA)},
	14: {body: or(or(nR, aA), and(naR, nnA))},
	15: {body: or(naR, aA)},
	16: {body: or(nR, nnA)},
	17: {body: or(naR, nnA)},
	18: {threshold: true, selfBias: true},
	19: {threshold: true},
}

// Templates returns every template in canonical order.
func Templates() []Template {
	templates := make([]Template, Count)
	for i := range templates {
		templates[i] = Template(i)
	}
	return templates
}

func Parse(index int) (Template, error) {
	if index < 0 || index >= Count {
		return 0, errors.Wrapf(ErrUnknownTemplate, "index %d", index)
	}
	return Template(index), nil
}

func (t Template) Valid() bool {
	return int(t) < Count
}

// Threshold reports whether t compares regulator counts instead of combining
// the four regulator predicates.
func (t Template) Threshold() bool {
	return t.Valid() && definitions[t].threshold
}

func (t Template) String() string {
	return strconv.Itoa(int(t))
}

// Describe renders the template body in terms of the regulator predicates.
func (t Template) Describe() string {
	if !t.Valid() {
		return "unknown"
	}
	definition := definitions[t]
	if definition.threshold {
		description := "count(activeActivators) > count(activeRepressors)"
		if definition.selfBias {
			description += " OR (count(activeActivators) = count(activeRepressors) AND self)"
		}
		return description
	}
	return render(definition.body, func(a atom) Formula { return Var(a.String()) }).String()
}

// render builds the printable view of a template body.
func render(e expr, atoms func(atom) Formula) Formula {
	switch e.op {
	case exprAtom:
		return atoms(e.atom)
	case exprNot:
		return Not(render(e.args[0], atoms))
	case exprAnd:
		return And(render(e.args[0], atoms), render(e.args[1], atoms))
	default:
		return Or(render(e.args[0], atoms), render(e.args[1], atoms))
	}
}
