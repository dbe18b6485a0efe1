package main

import (
	"fmt"

	"github.com/lirlia/100day_challenge_backend/pelican/layeredmap"
	"github.com/lirlia/100day_challenge_backend/pelican/substitution"
)

// Comparable is a trait-like property attached to every expression node:
// whether its value is usable with "==", independent of what the unifier
// concluded its type was. Int and bool literals are comparable; function
// values are not. Merge combines two contributing dependencies by requiring
// both to hold, the same "every dependency must agree" shape the
// substitution package's own trait-inference tests use.
type Comparable bool

func (c Comparable) Merge(other Comparable) (Comparable, error) {
	return c && other, nil
}

// resolveComparable breaks a self-dependency by falling back to whatever
// the node's other dependencies already settled on, or true if the
// self-edge was the node's only dependency. MiniLang has no recursive let,
// so no AST built by this parser ever actually reaches this callback with a
// non-nil known from a real cycle; it exists because Table.Resolve requires
// one regardless.
func resolveComparable(known *Comparable) (Comparable, error) {
	if known != nil {
		return *known, nil
	}
	return Comparable(true), nil
}

// comparableEnv binds a name to two different substitution variables: the
// comparability of the name used as a plain value, and, when the name is
// bound to a lambda, the comparability of calling it once. A reference to a
// function value itself is never comparable, but the result of calling it
// might be.
type comparableBinding struct {
	value      substitution.Var
	callResult substitution.Var
	hasCall    bool
}

type comparableEnv = layeredmap.Map[string, comparableBinding]

// comparablePass walks the AST a second time, independent of type
// inference, building a substitution.Table of per-node Comparable facts and
// dependencies and resolving it in one fixpoint pass.
type comparablePass struct {
	table *substitution.Table[Comparable]
}

func newComparablePass() *comparablePass {
	return &comparablePass{table: substitution.NewTable[Comparable](resolveComparable)}
}

// walk returns the substitution.Var representing expr's Comparable value.
func (p *comparablePass) walk(env comparableEnv, expr Expression) substitution.Var {
	v := p.table.Var()

	switch node := expr.(type) {
	case *Program:
		p.table.Dependency(v, p.walk(env, node.Expression))

	case *TopLevelExpression:
		if node.Let != nil {
			p.table.Dependency(v, p.walk(env, node.Let))
		} else {
			p.table.Dependency(v, p.walk(env, node.Term))
		}

	case *Let:
		bindVar := p.walk(env, node.BindExpr)
		binding := comparableBinding{value: bindVar}
		if lambda, ok := asLambda(node.BindExpr); ok {
			binding.hasCall = true
			binding.callResult = p.lambdaCallResult(env, lambda)
		}
		bodyVar := p.walk(env.Update(node.VarName, binding), node.BodyExpr)
		p.table.Dependency(v, bodyVar)

	case *If:
		p.table.Dependency(v, p.walk(env, node.ThenExpr))
		p.table.Dependency(v, p.walk(env, node.ElseExpr))

	case *Lambda:
		if err := p.table.Fact(v, Comparable(false)); err != nil {
			panic(err)
		}
		// Still walk the body so its own nodes get facts/dependencies of
		// their own; the result is only consulted via lambdaCallResult.
		p.walk(env.Update(node.Param, comparableBinding{value: p.table.Var()}), node.BodyExpr)

	case *Term:
		p.walkOpChain(env, v, node.Left, len(node.Right) > 0)
	case *AddTerm:
		p.walkOpChain(env, v, node.Left, len(node.Right) > 0)
	case *MulTerm:
		p.walkOpChain(env, v, node.Left, len(node.Right) > 0)
	case *CmpTerm:
		p.walkOpChain(env, v, node.Left, len(node.Right) > 0)

	case *BoolTerm:
		p.table.Dependency(v, p.walk(env, node.Factor))

	case *Factor:
		base := p.walk(env, node.Base)
		if len(node.Args) == 0 {
			p.table.Dependency(v, base)
			break
		}
		for _, arg := range node.Args {
			p.walk(env, arg.Arg)
		}
		// Conservative: only a single application of a directly let-bound
		// lambda, called by name, has its result comparability tracked; any
		// other call is recorded as not comparable.
		if callResult, ok := p.directCallResult(env, node.Base); ok && len(node.Args) == 1 {
			p.table.Dependency(v, callResult)
		} else if err := p.table.Fact(v, Comparable(false)); err != nil {
			panic(err)
		}

	case *BaseFactor:
		switch {
		case node.Literal != nil:
			p.table.Dependency(v, p.walk(env, node.Literal))
		case node.Lambda != nil:
			p.table.Dependency(v, p.walk(env, node.Lambda))
		default:
			p.table.Dependency(v, p.walk(env, node.If))
		}

	case *Literal:
		switch {
		case node.IntVal != nil, node.BoolVal != nil:
			if err := p.table.Fact(v, Comparable(true)); err != nil {
				panic(err)
			}
		case node.Variable != nil:
			if binding, ok := env.Get(*node.Variable); ok {
				p.table.Dependency(v, binding.value)
			} else if err := p.table.Fact(v, Comparable(false)); err != nil {
				panic(err)
			}
		default:
			p.table.Dependency(v, p.walk(env, node.SubExpr))
		}

	default:
		panic(fmt.Sprintf("unhandled ast node %T", expr))
	}

	return v
}

// walkOpChain handles the four binary-operator-chain AST levels: when no
// operator was actually applied at this level, comparability just passes
// through from Left; when one was, the result is always a primitive (an
// int or bool), hence always comparable.
func (p *comparablePass) walkOpChain(env comparableEnv, v substitution.Var, left Expression, hasOps bool) {
	leftVar := p.walk(env, left)
	if !hasOps {
		p.table.Dependency(v, leftVar)
		return
	}
	if err := p.table.Fact(v, Comparable(true)); err != nil {
		panic(err)
	}
}

// directCallResult reports the tracked call-result var for base, if base is
// exactly a reference to a name bound (via Let) directly to a lambda.
func (p *comparablePass) directCallResult(env comparableEnv, base *BaseFactor) (substitution.Var, bool) {
	if base.Literal == nil || base.Literal.Variable == nil {
		return 0, false
	}
	binding, ok := env.Get(*base.Literal.Variable)
	if !ok || !binding.hasCall {
		return 0, false
	}
	return binding.callResult, true
}

// lambdaCallResult computes the Comparable var for the result of calling
// lambda once. It registers a fresh walk of the body distinct from the one
// asLambda's caller already triggered via p.walk(env, node.BindExpr), since
// that walk's result (always false, from the Lambda case) tracks the
// function value itself rather than the value calling it once produces.
func (p *comparablePass) lambdaCallResult(env comparableEnv, lambda *Lambda) substitution.Var {
	bodyEnv := env.Update(lambda.Param, comparableBinding{value: p.table.Var()})
	return p.walk(bodyEnv, lambda.BodyExpr)
}

// asLambda reports whether term is, after unwrapping every
// no-operator-applied precedence level, exactly a lambda with no call
// arguments — the shape a `let f = fn x => ... in ...` binding has.
func asLambda(term *Term) (*Lambda, bool) {
	if len(term.Right) != 0 {
		return nil, false
	}
	addTerm := term.Left
	if len(addTerm.Right) != 0 {
		return nil, false
	}
	mulTerm := addTerm.Left
	if len(mulTerm.Right) != 0 {
		return nil, false
	}
	cmpTerm := mulTerm.Left
	if len(cmpTerm.Right) != 0 {
		return nil, false
	}
	factor := cmpTerm.Left.Factor
	if len(factor.Args) != 0 || factor.Base.Lambda == nil {
		return nil, false
	}
	return factor.Base.Lambda, true
}

// runComparablePass runs the trait pass over program and resolves it,
// returning whether the program's overall result is Comparable.
func runComparablePass(program *Program) (Comparable, error) {
	p := newComparablePass()
	env := layeredmap.New[string, comparableBinding]()
	root := p.walk(env, program)

	resolved, err := p.table.Resolve()
	if err != nil {
		return false, err
	}
	return resolved[root], nil
}
