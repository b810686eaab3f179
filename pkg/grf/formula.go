package grf

import (
	"strings"

	"github.com/samber/lo"
)

type Op uint8

const (
	OpConst Op = iota
	OpVar
	OpNot
	OpAnd
	OpOr
	OpGreater // count of true Args > count of true Right
	OpEqual   // count of true Args = count of true Right
)

// Formula is the printable view of a regulation function: a small boolean
// expression tree over regulator names. Constructors fold constants.
type Formula struct {
	Op    Op
	Name  string
	Value bool
	Args  []Formula
	Right []Formula
}

func True() Formula {
	return Formula{Op: OpConst, Value: true}
}

func False() Formula {
	return Formula{Op: OpConst, Value: false}
}

func Var(name string) Formula {
	return Formula{Op: OpVar, Name: name}
}

func (f Formula) isConst(value bool) bool {
	return f.Op == OpConst && f.Value == value
}

func Not(f Formula) Formula {
	switch f.Op {
	case OpConst:
		return Formula{Op: OpConst, Value: !f.Value}
	case OpNot:
		return f.Args[0]
	}
	return Formula{Op: OpNot, Args: []Formula{f}}
}

func And(fs ...Formula) Formula {
	return junction(OpAnd, fs)
}

func Or(fs ...Formula) Formula {
	return junction(OpOr, fs)
}

func junction(op Op, fs []Formula) Formula {
	// neutral is dropped, absorbing short-circuits
	neutral := op == OpAnd
	if lo.SomeBy(fs, func(f Formula) bool { return f.isConst(!neutral) }) {
		return Formula{Op: OpConst, Value: !neutral}
	}
	args := lo.Reject(fs, func(f Formula, _ int) bool { return f.isConst(neutral) })
	switch len(args) {
	case 0:
		return Formula{Op: OpConst, Value: neutral}
	case 1:
		return args[0]
	}
	return Formula{Op: op, Args: args}
}

func Greater(left, right []Formula) Formula {
	return Formula{Op: OpGreater, Args: left, Right: right}
}

func Equal(left, right []Formula) Formula {
	return Formula{Op: OpEqual, Args: left, Right: right}
}

// Eval evaluates f with every variable read from values; missing names are false.
func (f Formula) Eval(values map[string]bool) bool {
	count := func(fs []Formula) int {
		return lo.CountBy(fs, func(f Formula) bool { return f.Eval(values) })
	}
	switch f.Op {
	case OpConst:
		return f.Value
	case OpVar:
		return values[f.Name]
	case OpNot:
		return !f.Args[0].Eval(values)
	case OpAnd:
		return lo.EveryBy(f.Args, func(f Formula) bool { return f.Eval(values) })
	case OpOr:
		return lo.SomeBy(f.Args, func(f Formula) bool { return f.Eval(values) })
	case OpGreater:
		return count(f.Args) > count(f.Right)
	default:
		return count(f.Args) == count(f.Right)
	}
}

// Names returns the variables f reads, in order of first appearance.
func (f Formula) Names() []string {
	names := make([]string, 0)
	var visit func(f Formula)
	visit = func(f Formula) {
		if f.Op == OpVar {
			names = append(names, f.Name)
		}
		lo.ForEach(f.Args, func(f Formula, _ int) { visit(f) })
		lo.ForEach(f.Right, func(f Formula, _ int) { visit(f) })
	}
	visit(f)
	return lo.Uniq(names)
}

func (f Formula) String() string {
	switch f.Op {
	case OpConst:
		if f.Value {
			return "True"
		}
		return "False"
	case OpVar:
		return f.Name
	case OpNot:
		return "(NOT " + f.Args[0].String() + ")"
	case OpAnd:
		return "(" + join(f.Args, " AND ") + ")"
	case OpOr:
		return "(" + join(f.Args, " OR ") + ")"
	case OpGreater:
		return "(" + list(f.Args) + " > " + list(f.Right) + ")"
	default:
		return "(" + list(f.Args) + " = " + list(f.Right) + ")"
	}
}

func join(fs []Formula, separator string) string {
	return strings.Join(lo.Map(fs, func(f Formula, _ int) string { return f.String() }), separator)
}

func list(fs []Formula) string {
	if len(fs) == 0 {
		return "0"
	}
	return "[" + join(fs, ", ") + "]"
}
