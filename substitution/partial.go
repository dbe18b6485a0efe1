package substitution

import "github.com/m-mizutani/goerr"

// partial is the in-progress inference result for one table entry: any
// dependencies not yet resolved against known, the merged value of the ones
// that have been, and whether one of the remaining dependencies is v itself.
type partial[T Value[T]] struct {
	recursive    bool
	result       *T
	dependencies map[Var]struct{}
}

type tryResolveOutcome[T any] struct {
	done       bool
	result     T
	progressed bool
}

// tryResolve makes one pass over p's remaining dependencies against known,
// folding in any that are now available. If dependencies remain afterward
// the outcome is always incomplete. If none do and p is recursive, the
// cycle resolver decides the final value. Otherwise the entry is complete
// only if some value was already known for it.
func (p *partial[T]) tryResolve(known map[Var]T, resolveCycle CycleResolver[T]) (tryResolveOutcome[T], error) {
	var newResult *T
	newDependencies := map[Var]struct{}{}

	for dep := range p.dependencies {
		if value, ok := known[dep]; ok {
			merged, err := mergeOpt(newResult, &value)
			if err != nil {
				var zero T
				return tryResolveOutcome[T]{result: zero}, goerr.Wrap(err, "failed to merge dependency value").With("dep", dep)
			}
			newResult = merged
		} else {
			newDependencies[dep] = struct{}{}
		}
	}

	progressed := newResult != nil
	merged, err := mergeOpt(p.result, newResult)
	if err != nil {
		var zero T
		return tryResolveOutcome[T]{result: zero}, goerr.Wrap(err, "failed to merge accumulated result")
	}
	p.result = merged

	if len(newDependencies) > 0 {
		p.dependencies = newDependencies
		var zero T
		return tryResolveOutcome[T]{result: zero, progressed: progressed}, nil
	}

	if p.recursive {
		result, err := resolveCycle(p.result)
		if err != nil {
			var zero T
			return tryResolveOutcome[T]{result: zero}, goerr.Wrap(err, "cycle resolver failed")
		}
		return tryResolveOutcome[T]{done: true, result: result}, nil
	}

	if p.result == nil {
		var zero T
		return tryResolveOutcome[T]{result: zero}, goerr.Wrap(&NoProgressError{}, "entry has no remaining dependencies and no known value")
	}
	return tryResolveOutcome[T]{done: true, result: *p.result}, nil
}

func mergeOpt[T Value[T]](left, right *T) (*T, error) {
	switch {
	case left == nil && right == nil:
		return nil, nil
	case left == nil:
		return right, nil
	case right == nil:
		return left, nil
	default:
		merged, err := (*left).Merge(*right)
		if err != nil {
			return nil, err
		}
		return &merged, nil
	}
}
