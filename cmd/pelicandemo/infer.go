package main

import (
	"fmt"

	"github.com/lirlia/100day_challenge_backend/pelican/layeredmap"
	"github.com/lirlia/100day_challenge_backend/pelican/unification"
)

// UnboundVariableError is raised immediately during inference (not deferred
// to Table.Unify) when a name has no binding in the current environment.
type UnboundVariableError struct{ Name string }

func (e UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}

// typeEnv binds names to their types. It is a persistent layered map so that
// each branch of a let-body or an if-arm sees exactly the bindings visible
// at that point in the source, with no bleed-through between sibling
// branches — pushing a new layer per Update is what makes that cheap.
type typeEnv = layeredmap.Map[string, unification.ValueOrVar[Type]]

// engine drives one inference pass: it walks the AST once, queuing
// constraints on its unification table as it goes, and leaves the actual
// solving to Table.Unify at the end.
type engine struct {
	table *unification.Table[Type]
}

func newEngine() *engine {
	return &engine{table: unification.NewTable[Type](unifyType)}
}

// infer computes expr's type in env, queuing any constraints the expression
// requires. The only error it can return directly (as opposed to one
// surfaced later from Table.Unify) is UnboundVariableError.
func (e *engine) infer(env typeEnv, expr Expression) (unification.ValueOrVar[Type], error) {
	var zero unification.ValueOrVar[Type]

	switch node := expr.(type) {
	case *Program:
		return e.infer(env, node.Expression)

	case *TopLevelExpression:
		if node.Let != nil {
			return e.infer(env, node.Let)
		}
		return e.infer(env, node.Term)

	case *Let:
		bindTyp, err := e.infer(env, node.BindExpr)
		if err != nil {
			return zero, err
		}
		return e.infer(env.Update(node.VarName, bindTyp), node.BodyExpr)

	case *If:
		condTyp, err := e.infer(env, node.CondExpr)
		if err != nil {
			return zero, err
		}
		e.table.Constraint(condTyp, unification.Val(typeBool()))

		thenTyp, err := e.infer(env, node.ThenExpr)
		if err != nil {
			return zero, err
		}
		elseTyp, err := e.infer(env, node.ElseExpr)
		if err != nil {
			return zero, err
		}
		e.table.Constraint(thenTyp, elseTyp)
		return thenTyp, nil

	case *Lambda:
		argVar := e.table.Var()
		bodyEnv := env.Update(node.Param, unification.VarOf[Type](argVar))
		bodyTyp, err := e.infer(bodyEnv, node.BodyExpr)
		if err != nil {
			return zero, err
		}
		return unification.Val(typeFunc(unification.VarOf[Type](argVar), bodyTyp)), nil

	case *Term:
		typ, err := e.infer(env, node.Left)
		if err != nil {
			return zero, err
		}
		for _, opTerm := range node.Right {
			if typ, err = e.applyOp(env, typ, opTerm.Operator, opTerm.AddTerm); err != nil {
				return zero, err
			}
		}
		return typ, nil

	case *AddTerm:
		typ, err := e.infer(env, node.Left)
		if err != nil {
			return zero, err
		}
		for _, opTerm := range node.Right {
			if typ, err = e.applyOp(env, typ, opTerm.Operator, opTerm.MulTerm); err != nil {
				return zero, err
			}
		}
		return typ, nil

	case *MulTerm:
		typ, err := e.infer(env, node.Left)
		if err != nil {
			return zero, err
		}
		for _, opTerm := range node.Right {
			if typ, err = e.applyOp(env, typ, opTerm.Operator, opTerm.CmpTerm); err != nil {
				return zero, err
			}
		}
		return typ, nil

	case *CmpTerm:
		typ, err := e.infer(env, node.Left)
		if err != nil {
			return zero, err
		}
		for _, opTerm := range node.Right {
			if typ, err = e.applyOp(env, typ, opTerm.Operator, opTerm.BoolTerm); err != nil {
				return zero, err
			}
		}
		return typ, nil

	case *BoolTerm:
		return e.infer(env, node.Factor)

	case *Factor:
		typ, err := e.infer(env, node.Base)
		if err != nil {
			return zero, err
		}
		for _, arg := range node.Args {
			argTyp, err := e.infer(env, arg.Arg)
			if err != nil {
				return zero, err
			}
			retVar := e.table.Var()
			e.table.Constraint(typ, unification.Val(typeFunc(argTyp, unification.VarOf[Type](retVar))))
			typ = unification.VarOf[Type](retVar)
		}
		return typ, nil

	case *BaseFactor:
		if node.Literal != nil {
			return e.infer(env, node.Literal)
		}
		if node.Lambda != nil {
			return e.infer(env, node.Lambda)
		}
		return e.infer(env, node.If)

	case *Literal:
		switch {
		case node.IntVal != nil:
			return unification.Val(typeInt()), nil
		case node.BoolVal != nil:
			return unification.Val(typeBool()), nil
		case node.Variable != nil:
			typ, ok := env.Get(*node.Variable)
			if !ok {
				return zero, UnboundVariableError{Name: *node.Variable}
			}
			return typ, nil
		default:
			return e.infer(env, node.SubExpr)
		}

	default:
		panic(fmt.Sprintf("unhandled ast node %T", expr))
	}
}

// arithOperators and comparisonOperators classify operators by the operand
// type they require; logicalOperators require bool operands. Every operator
// this grammar accepts falls into exactly one of these three sets.
var (
	arithOperators      = map[string]bool{"+": true, "-": true, "*": true, "/": true}
	comparisonOperators = map[string]bool{">": true, "<": true, "==": true}
	logicalOperators    = map[string]bool{"&&": true, "||": true}
)

// operandAndResult returns the operand type every side of op must unify
// with, and the type the whole operation produces.
func operandAndResult(op string) (operand, result Type) {
	switch {
	case arithOperators[op]:
		return typeInt(), typeInt()
	case comparisonOperators[op]:
		return typeInt(), typeBool()
	case logicalOperators[op]:
		return typeBool(), typeBool()
	default:
		panic("unknown operator: " + op)
	}
}

// applyOp folds one more operator application onto an accumulated
// left-hand type: both operands are constrained to op's expected operand
// type, and the (always concrete) result type replaces the accumulator.
func (e *engine) applyOp(env typeEnv, left unification.ValueOrVar[Type], op string, right Expression) (unification.ValueOrVar[Type], error) {
	var zero unification.ValueOrVar[Type]
	rightTyp, err := e.infer(env, right)
	if err != nil {
		return zero, err
	}
	operand, result := operandAndResult(op)
	e.table.Constraint(left, unification.Val(operand))
	e.table.Constraint(rightTyp, unification.Val(operand))
	return unification.Val(result), nil
}

// walkTypeMono is ResolveMono's walk callback: it requires every nested
// variable in a function type to already have a concrete value, failing
// with UnresolvedVariableError otherwise (which is the expected outcome for
// an under-constrained program like a bare `fn x => x`, since this checker
// deliberately does not generalize to a type scheme the way `let`
// polymorphism would).
func walkTypeMono(t Type, types map[unification.Var]unification.ValueOrVar[Type]) (Type, error) {
	if t.k != kindFunc {
		return t, nil
	}
	arg, err := unification.ResolveMono(*t.arg, types, walkTypeMono)
	if err != nil {
		return Type{}, err
	}
	ret, err := unification.ResolveMono(*t.ret, types, walkTypeMono)
	if err != nil {
		return Type{}, err
	}
	return typeFunc(unification.Val(arg), unification.Val(ret)), nil
}

// runInference parses nothing itself; it walks an already-parsed Program,
// solves the resulting unification table, and resolves the program's type
// down to a concrete Type or fails trying.
func runInference(program *Program) (Type, error) {
	var zero Type
	if program.Expression == nil {
		return zero, fmt.Errorf("empty program")
	}

	e := newEngine()
	env := layeredmap.New[string, unification.ValueOrVar[Type]]()
	typ, err := e.infer(env, program)
	if err != nil {
		return zero, wrapInferError(err, program.Pos())
	}

	types, err := e.table.Unify()
	if err != nil {
		return zero, wrapInferError(err, program.Pos())
	}

	result, err := unification.ResolveMono(typ, types, walkTypeMono)
	if err != nil {
		return zero, wrapInferError(err, program.Pos())
	}
	return result, nil
}
