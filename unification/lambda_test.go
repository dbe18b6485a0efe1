package unification_test

// A small untyped-lambda-calculus-ish type checker used purely to exercise
// the unification table end to end: Unit, variables, single-argument
// functions, and calls, checked against a Unit/Function type lattice with
// the classic SKI combinators as the scenario set.

import (
	"fmt"
	"reflect"

	"github.com/lirlia/100day_challenge_backend/pelican/layeredmap"
	"github.com/lirlia/100day_challenge_backend/pelican/unification"
)

// --- Ast ---

type Ast interface{ isAst() }

type AstUnit struct{}

func (AstUnit) isAst() {}

type AstVar struct{ ID int }

func (AstVar) isAst() {}

type AstFunction struct {
	Arg  int
	Body Ast
}

func (AstFunction) isAst() {}

type AstCall struct {
	Subject, Arg Ast
}

func (AstCall) isAst() {}

// --- TypedAst ---

type TypedAst interface{ isTypedAst() }

type TypedUnit struct{}

func (TypedUnit) isTypedAst() {}

type TypedVar struct {
	ID  int
	Typ unification.ValueOrVar[Type]
}

func (TypedVar) isTypedAst() {}

type TypedFunction struct {
	Arg     int
	ArgType unification.ValueOrVar[Type]
	Body    TypedAst
}

func (TypedFunction) isTypedAst() {}

type TypedCall struct {
	Subject, Arg TypedAst
	Typ          unification.ValueOrVar[Type]
}

func (TypedCall) isTypedAst() {}

// --- Type ---

// Type is either Unit or a single-argument Function. A nil arg/ret pointer
// pair means Unit.
type Type struct {
	arg, ret *unification.ValueOrVar[Type]
}

func typeUnit() Type { return Type{} }

func typeFunc(arg, ret unification.ValueOrVar[Type]) Type {
	return Type{arg: &arg, ret: &ret}
}

func (t Type) IsUnit() bool { return t.arg == nil }

func (t Type) String() string {
	if t.IsUnit() {
		return "Unit"
	}
	return fmt.Sprintf("Function(%v, %v)", *t.arg, *t.ret)
}

// Merge only allows two concrete types to unify if they are structurally
// equal.
func (t Type) Merge(other Type) (Type, error) {
	if !reflect.DeepEqual(t, other) {
		return Type{}, IncompatibleTypesError{Left: t, Right: other}
	}
	return t, nil
}

func containsVar(t Type, v unification.Var) bool {
	if t.IsUnit() {
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

func walkType(t Type, types map[unification.Var]unification.ValueOrVar[Type]) Type {
	if t.IsUnit() {
		return t
	}
	arg := unification.Resolve(*t.arg, types, walkType)
	ret := unification.Resolve(*t.ret, types, walkType)
	return typeFunc(arg, ret)
}

// --- Type errors ---

type IncompatibleTypesError struct{ Left, Right Type }

func (e IncompatibleTypesError) Error() string {
	return fmt.Sprintf("incompatible types: %v vs %v", e.Left, e.Right)
}

type InfiniteTypeError struct {
	Var unification.Var
	Typ Type
}

func (e InfiniteTypeError) Error() string {
	return fmt.Sprintf("infinite type: %s occurs in %v", e.Var, e.Typ)
}

// --- Unify callback ---

func normalizeType(u *unification.Unifier[Type], vv unification.ValueOrVar[Type]) unification.ValueOrVar[Type] {
	if value, ok := vv.Value(); ok {
		if value.IsUnit() {
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

func unifyType(left, right unification.ValueOrVar[Type], u *unification.Unifier[Type]) error {
	left = normalizeType(u, left)
	right = normalizeType(u, right)

	leftValue, leftIsValue := left.Value()
	rightValue, rightIsValue := right.Value()

	switch {
	case leftIsValue && rightIsValue && leftValue.IsUnit() && rightValue.IsUnit():
		return nil
	case leftIsValue && rightIsValue && !leftValue.IsUnit() && !rightValue.IsUnit():
		if err := unifyType(*leftValue.arg, *rightValue.arg, u); err != nil {
			return err
		}
		return unifyType(*leftValue.ret, *rightValue.ret, u)
	case leftIsValue && rightIsValue:
		return IncompatibleTypesError{Left: leftValue, Right: rightValue}
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

// --- Engine ---

type typeEnv = layeredmap.Map[int, unification.ValueOrVar[Type]]

type engine struct {
	table *unification.Table[Type]
}

func newEngine() *engine {
	return &engine{table: unification.NewTable[Type](unifyType)}
}

func (e *engine) infer(env typeEnv, ast Ast) (TypedAst, unification.ValueOrVar[Type]) {
	switch node := ast.(type) {
	case AstUnit:
		return TypedUnit{}, unification.Val(typeUnit())

	case AstVar:
		typ, _ := env.Get(node.ID)
		return TypedVar{ID: node.ID, Typ: typ}, typ

	case AstFunction:
		argVar := e.table.Var()
		bodyEnv := env.Update(node.Arg, unification.VarOf[Type](argVar))
		body, ret := e.infer(bodyEnv, node.Body)
		return TypedFunction{Arg: node.Arg, ArgType: unification.VarOf[Type](argVar), Body: body},
			unification.Val(typeFunc(unification.VarOf[Type](argVar), ret))

	case AstCall:
		arg, argTyp := e.infer(env.Claim(), node.Arg)
		retVar := e.table.Var()
		typ := unification.Val(typeFunc(argTyp, unification.VarOf[Type](retVar)))
		subject := e.check(env, node.Subject, typ)
		return TypedCall{Subject: subject, Arg: arg, Typ: unification.VarOf[Type](retVar)},
			unification.VarOf[Type](retVar)

	default:
		panic(fmt.Sprintf("unhandled ast node %T", ast))
	}
}

func (e *engine) check(env typeEnv, ast Ast, typ unification.ValueOrVar[Type]) TypedAst {
	if _, isUnit := ast.(AstUnit); isUnit {
		if v, ok := typ.Value(); ok && v.IsUnit() {
			return TypedUnit{}
		}
	}
	if fn, isFn := ast.(AstFunction); isFn {
		if v, ok := typ.Value(); ok && !v.IsUnit() {
			bodyEnv := env.Update(fn.Arg, *v.arg)
			body := e.check(bodyEnv, fn.Body, *v.ret)
			return TypedFunction{Arg: fn.Arg, ArgType: *v.arg, Body: body}
		}
	}
	out, actual := e.infer(env, ast)
	e.table.Constraint(typ, actual)
	return out
}

func substitute(ast TypedAst, types map[unification.Var]unification.ValueOrVar[Type]) TypedAst {
	switch node := ast.(type) {
	case TypedUnit:
		return node
	case TypedVar:
		return TypedVar{ID: node.ID, Typ: unification.Resolve(node.Typ, types, walkType)}
	case TypedFunction:
		return TypedFunction{
			Arg:     node.Arg,
			ArgType: unification.Resolve(node.ArgType, types, walkType),
			Body:    substitute(node.Body, types),
		}
	case TypedCall:
		return TypedCall{
			Subject: substitute(node.Subject, types),
			Arg:     substitute(node.Arg, types),
			Typ:     unification.Resolve(node.Typ, types, walkType),
		}
	default:
		panic(fmt.Sprintf("unhandled typed ast node %T", ast))
	}
}

func infer(ast Ast) (TypedAst, unification.ValueOrVar[Type], map[unification.Var]struct{}, error) {
	e := newEngine()
	typedAst, typ := e.infer(layeredmap.New[int, unification.ValueOrVar[Type]](), ast)
	types, err := e.table.Unify()
	if err != nil {
		return nil, unification.ValueOrVar[Type]{}, nil, err
	}

	unbound := map[unification.Var]struct{}{}
	for _, value := range types {
		if v, ok := value.Var(); ok {
			unbound[v] = struct{}{}
		}
	}

	return substitute(typedAst, types), unification.Resolve(typ, types, walkType), unbound, nil
}

// --- Builders ---

func typ(t Type) unification.ValueOrVar[Type] { return unification.Val(t) }

func typVar(v unification.Var) unification.ValueOrVar[Type] { return unification.VarOf[Type](v) }

func typFunction(arg, ret unification.ValueOrVar[Type]) unification.ValueOrVar[Type] {
	return unification.Val(typeFunc(arg, ret))
}

func typedUnit() TypedAst { return TypedUnit{} }

func typedVar(id int, t unification.ValueOrVar[Type]) TypedAst {
	return TypedVar{ID: id, Typ: t}
}

func typedFunction(arg int, argType unification.ValueOrVar[Type], body TypedAst) TypedAst {
	return TypedFunction{Arg: arg, ArgType: argType, Body: body}
}

func typedCall(subject, arg TypedAst, t unification.ValueOrVar[Type]) TypedAst {
	return TypedCall{Subject: subject, Arg: arg, Typ: t}
}

// combinatorBuilder hands out fresh Ast variable ids for building the SKI
// combinators, mirroring how a parser would name binder positions.
type combinatorBuilder struct{ nextID int }

func (c *combinatorBuilder) next() int {
	id := c.nextID
	c.nextID++
	return id
}

func (c *combinatorBuilder) I() Ast {
	arg := c.next()
	return AstFunction{Arg: arg, Body: AstVar{ID: arg}}
}

func (c *combinatorBuilder) K() Ast {
	a, b := c.next(), c.next()
	return AstFunction{Arg: a, Body: AstFunction{Arg: b, Body: AstVar{ID: a}}}
}

func (c *combinatorBuilder) S() Ast {
	x, y, z := c.next(), c.next(), c.next()
	// Sxyz == xz(yz)
	return AstFunction{Arg: x, Body: AstFunction{Arg: y, Body: AstFunction{Arg: z, Body: AstCall{
		Subject: AstCall{Subject: AstVar{ID: x}, Arg: AstVar{ID: z}},
		Arg:     AstCall{Subject: AstVar{ID: y}, Arg: AstVar{ID: z}},
	}}}}
}

func (c *combinatorBuilder) Y() Ast {
	f, x := c.next(), c.next()
	inner := AstFunction{Arg: x, Body: AstCall{Subject: AstVar{ID: f}, Arg: AstCall{Subject: AstVar{ID: x}, Arg: AstVar{ID: x}}}}
	return AstFunction{Arg: f, Body: AstCall{Subject: inner, Arg: inner}}
}
