package main

import (
	"fmt"
	"reflect"

	"github.com/m-mizutani/goerr"

	"github.com/lirlia/100day_challenge_backend/pelican/unification"
)

// kind distinguishes MiniLang's three type shapes. There is deliberately no
// scheme/forall kind: this checker is monomorphic, it does not generalize
// let-bindings the way a Hindley-Milner implementation normally would.
type kind int

const (
	kindInt kind = iota
	kindBool
	kindFunc
)

// Type is a MiniLang type: Int, Bool, or a single-argument Function. arg/ret
// are only meaningful when k is kindFunc.
type Type struct {
	k        kind
	arg, ret *unification.ValueOrVar[Type]
}

func typeInt() Type  { return Type{k: kindInt} }
func typeBool() Type { return Type{k: kindBool} }

func typeFunc(arg, ret unification.ValueOrVar[Type]) Type {
	return Type{k: kindFunc, arg: &arg, ret: &ret}
}

func (t Type) String() string {
	switch t.k {
	case kindInt:
		return "int"
	case kindBool:
		return "bool"
	default:
		argStr := vvString(*t.arg)
		if v, ok := t.arg.Value(); ok && v.k == kindFunc {
			argStr = "(" + argStr + ")"
		}
		return fmt.Sprintf("%s -> %s", argStr, vvString(*t.ret))
	}
}

// vvString renders a ValueOrVar[Type] for diagnostics; unification.Var
// already implements String, and Type.String recurses for values.
func vvString(vv unification.ValueOrVar[Type]) string {
	if v, ok := vv.Var(); ok {
		return v.String()
	}
	value, _ := vv.Value()
	return value.String()
}

// Merge is only reached once both sides have already been decomposed
// structurally by unifyType, so two function types here have already had
// their arg/ret unified against each other; what's left to check is that
// they didn't disagree on kind, and that their nested representations
// (which may still point at different but now-equivalent variables) match.
func (t Type) Merge(other Type) (Type, error) {
	if t.k != other.k {
		return Type{}, IncompatibleTypesError{Left: t, Right: other}
	}
	if t.k != kindFunc {
		return t, nil
	}
	if !reflect.DeepEqual(t, other) {
		return Type{}, IncompatibleTypesError{Left: t, Right: other}
	}
	return t, nil
}

func containsVar(t Type, v unification.Var) bool {
	if t.k != kindFunc {
		return false
	}
	return valueOrVarContainsVar(*t.arg, v) || valueOrVarContainsVar(*t.ret, v)
}

func valueOrVarContainsVar(vv unification.ValueOrVar[Type], v unification.Var) bool {
	if vr, ok := vv.Var(); ok {
		return vr == v
	}
	value, _ := vv.Value()
	return containsVar(value, v)
}

// walkType recursively resolves the nested ValueOrVars of a compound type
// against the final table produced by Table.Unify, the "walk" callback
// unification.Resolve requires of its caller.
func walkType(t Type, types map[unification.Var]unification.ValueOrVar[Type]) Type {
	if t.k != kindFunc {
		return t
	}
	arg := unification.Resolve(*t.arg, types, walkType)
	ret := unification.Resolve(*t.ret, types, walkType)
	return typeFunc(arg, ret)
}

// --- Type errors ---

// IncompatibleTypesError reports two types that can never unify, e.g. an
// if-branch mismatch or an arithmetic operand that isn't an int.
type IncompatibleTypesError struct{ Left, Right Type }

func (e IncompatibleTypesError) Error() string {
	return fmt.Sprintf("incompatible types: %s vs %s", e.Left, e.Right)
}

// InfiniteTypeError reports an occurs-check failure: a variable would have
// to appear inside its own type, e.g. from `let loop = fn x => x(x) in loop`.
type InfiniteTypeError struct {
	Var unification.Var
	Typ Type
}

func (e InfiniteTypeError) Error() string {
	return fmt.Sprintf("infinite type: %s occurs in %s", e.Var, e.Typ)
}

// --- Unify callback ---

func normalizeType(u *unification.Unifier[Type], vv unification.ValueOrVar[Type]) unification.ValueOrVar[Type] {
	if value, ok := vv.Value(); ok {
		if value.k != kindFunc {
			return vv
		}
		return unification.Val(typeFunc(
			normalizeType(u, *value.arg),
			normalizeType(u, *value.ret),
		))
	}
	v, _ := vv.Var()
	probed := u.Probe(v)
	if probed.IsVar() {
		return probed
	}
	return normalizeType(u, probed)
}

// unifyType is the unification.UnifyFunc[Type] the demo's Table runs:
// decompose function types down to their arg/ret, require primitive types
// to match exactly, and occurs-check before binding a variable to a value.
func unifyType(left, right unification.ValueOrVar[Type], u *unification.Unifier[Type]) error {
	left = normalizeType(u, left)
	right = normalizeType(u, right)

	leftValue, leftIsValue := left.Value()
	rightValue, rightIsValue := right.Value()

	switch {
	case leftIsValue && rightIsValue && leftValue.k == kindFunc && rightValue.k == kindFunc:
		if err := unifyType(*leftValue.arg, *rightValue.arg, u); err != nil {
			return err
		}
		return unifyType(*leftValue.ret, *rightValue.ret, u)
	case leftIsValue && rightIsValue:
		if leftValue.k != rightValue.k {
			return IncompatibleTypesError{Left: leftValue, Right: rightValue}
		}
		return nil
	case !leftIsValue && !rightIsValue:
		leftVar, _ := left.Var()
		rightVar, _ := right.Var()
		return u.UnifyVarVar(leftVar, rightVar)
	case !leftIsValue:
		leftVar, _ := left.Var()
		if containsVar(rightValue, leftVar) {
			return InfiniteTypeError{Var: leftVar, Typ: rightValue}
		}
		return u.UnifyVarValue(leftVar, rightValue)
	default:
		rightVar, _ := right.Var()
		if containsVar(leftValue, rightVar) {
			return InfiniteTypeError{Var: rightVar, Typ: leftValue}
		}
		return u.UnifyVarValue(rightVar, leftValue)
	}
}

// wrapInferError attaches the given pos as context to an inference failure
// (runInference passes Program.Pos(), which is always 0 because AST nodes
// record no source offsets), without discarding the original typed error
// (errors.As must still be able to reach an IncompatibleTypesError or
// InfiniteTypeError underneath).
func wrapInferError(err error, pos int) error {
	return goerr.Wrap(err, "type error").With("pos", pos)
}
