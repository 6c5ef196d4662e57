// Package pathwalk implements path/set-path/get-path traversal (spec.md
// §4.4): resolving a base value and walking object fields and series
// indexes, with an optional stop-before-last mode for assignment.
//
// Grounded on the teacher's internal/eval/evaluator.go traversePath /
// parsePathString / assignToPathTarget / evalPath / evalSetPath, lifted out
// of the evaluator into its own package and generalized: the teacher
// addressed objects by a package-global frame index
// (obj.FrameIndex/e.GetFrameByIndex); here an ObjectInstance carries its
// context directly (core.Binding), so field lookup and the prototype-chain
// walk use the same Resolve machinery internal/bind already provides.
package pathwalk

import (
	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

// Traversal records the value resolved at each prefix of a path (base,
// then one entry per segment actually walked). Values[0] is always the
// base; Values[i] is the value after walking Segments[i-1].
type Traversal struct {
	Segments []value.PathSegment
	Values   []core.Value
}

// RefinementCall is returned instead of a completed Traversal when the
// path's base resolves to a callable value followed by bare words
// (foo/refine1/refine2, spec.md §4.4's path-dispatch form). Applying the
// callee with these refinements enabled is the evaluator's job — it owns
// frame construction and argument fulfillment — so pathwalk hands the
// callee and refinement names back rather than invoking anything itself.
type RefinementCall struct {
	Callee      core.Value
	Refinements []string
}

// binder is satisfied by *bind.Context; pathwalk assigns into whichever
// binding in an object's context chain actually owns the field, without
// needing to import bind.Context's concrete type for anything but Resolve.
type binder interface {
	Bind(name string, v core.Value)
}

// Walk resolves path's base and walks its segments against ctx. When
// stopBeforeLast is true (for a set-path target) and the path has more
// than one segment, the last segment is left unresolved so the caller can
// perform the final assignment with AssignInto.
//
// Walk returns a non-nil *RefinementCall instead of a *Traversal when the
// base is a callable value and the remaining segments are all bare words.
func Walk(ctx core.Binding, ev core.Evaluator, path *value.PathExpression, stopBeforeLast bool) (*Traversal, *RefinementCall, error) {
	if len(path.Segments) == 0 {
		return nil, nil, verror.NewScriptError(verror.ErrIDInvalidPath, [3]string{"empty path", "empty", ""})
	}

	base, err := resolveBase(ctx, ev, path.Segments[0])
	if err != nil {
		return nil, nil, err
	}

	tr := &Traversal{Segments: path.Segments, Values: make([]core.Value, 0, len(path.Segments))}
	tr.Values = append(tr.Values, base)

	if rc, ok := tryRefinementCall(base, path.Segments); ok {
		if rc == nil {
			return nil, nil, verror.NewScriptError(verror.ErrIDPathEnfixUnsupported, [3]string{pathName(path.Segments[0]), "", ""})
		}
		return nil, rc, nil
	}

	endIdx := len(path.Segments)
	if stopBeforeLast && len(path.Segments) > 1 {
		endIdx = len(path.Segments) - 1
	}

	for i := 1; i < endIdx; i++ {
		seg := path.Segments[i]
		current := tr.Values[len(tr.Values)-1]
		next, err := stepInto(ev, current, seg)
		if err != nil {
			return nil, nil, err
		}
		tr.Values = append(tr.Values, next)
	}

	return tr, nil, nil
}

func resolveBase(ctx core.Binding, ev core.Evaluator, seg value.PathSegment) (core.Value, error) {
	switch seg.Type {
	case value.PathSegmentWord:
		name, _ := seg.Value.(string)
		v, ok := bind.Resolve(ctx, name)
		if !ok {
			return nil, verror.NewScriptError(verror.ErrIDNoValue, [3]string{name, "", ""})
		}
		return v, nil
	case value.PathSegmentIndex:
		n, _ := seg.Value.(int64)
		return value.IntVal(n), nil
	case value.PathSegmentGroup:
		return evalGroupSegment(ev, seg)
	default:
		return nil, verror.NewInternalError("unsupported path base segment type", [3]string{})
	}
}

func evalGroupSegment(ev core.Evaluator, seg value.PathSegment) (core.Value, error) {
	blk, ok := seg.Value.(*value.BlockValue)
	if !ok {
		return nil, verror.NewInternalError("group segment does not contain a block", [3]string{})
	}
	return ev.DoBlock(blk.Elements)
}

// tryRefinementCall reports whether base is callable and the remaining
// segments are all bare words, i.e. this is a path-dispatch form rather
// than an object/series traversal. The bool is false when base is not
// callable at all (ordinary traversal should proceed); when it is true
// with a nil *RefinementCall, base is callable but rejected as
// enfixed/invisible (spec.md §9 decision 2).
func tryRefinementCall(base core.Value, segments []value.PathSegment) (*RefinementCall, bool) {
	if len(segments) < 2 {
		return nil, false
	}
	if !isCallable(base) {
		return nil, false
	}
	names := make([]string, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		name, ok := seg.Value.(string)
		if seg.Type != value.PathSegmentWord || !ok {
			return nil, false
		}
		names = append(names, name)
	}
	if base.GetFlags().Has(core.FlagEnfixed) || base.GetFlags().Has(core.FlagInvisible) {
		return nil, true
	}
	return &RefinementCall{Callee: base, Refinements: names}, true
}

func isCallable(v core.Value) bool {
	if v == nil {
		return false
	}
	switch v.GetType() {
	case value.Function, value.Action:
		return true
	default:
		return false
	}
}

func pathName(seg value.PathSegment) string {
	if s, ok := seg.Value.(string); ok {
		return s
	}
	return "?"
}

// stepInto walks one segment from current, dispatching on current's kind
// the way traversePath did (object field / block or string index / group
// selector).
func stepInto(ev core.Evaluator, current core.Value, seg value.PathSegment) (core.Value, error) {
	if current == nil || current.GetType() == value.Void {
		return nil, verror.NewScriptError(verror.ErrIDNonePath, [3]string{})
	}

	switch seg.Type {
	case value.PathSegmentWord:
		name, _ := seg.Value.(string)
		return fieldOf(current, name)
	case value.PathSegmentIndex:
		idx, _ := seg.Value.(int64)
		return indexInto(current, idx)
	case value.PathSegmentGroup:
		sel, err := evalGroupSegment(ev, seg)
		if err != nil {
			return nil, err
		}
		return selectBy(current, sel)
	default:
		return nil, verror.NewInternalError("unsupported path segment type", [3]string{})
	}
}

// selectBy dispatches a group selector's evaluated result: a word selects
// an object field, anything else is coerced to an index.
func selectBy(current core.Value, sel core.Value) (core.Value, error) {
	if name, ok := value.AsWord(sel); ok {
		return fieldOf(current, name)
	}
	idx, ok := value.AsInteger(sel)
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDPathTypeMismatch, [3]string{"group selector must be a word or integer", "", ""})
	}
	return indexInto(current, idx)
}

func fieldOf(current core.Value, name string) (core.Value, error) {
	if current.GetType() != value.Object {
		return nil, verror.NewScriptError(verror.ErrIDPathTypeMismatch, [3]string{value.TypeToString(current.GetType()), "", ""})
	}
	obj, _ := value.AsObject(current)
	v, ok := bind.Resolve(obj.Ctx, name)
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDNoSuchField, [3]string{name, "", ""})
	}
	return v, nil
}

func indexInto(current core.Value, index int64) (core.Value, error) {
	switch current.GetType() {
	case value.Block, value.Group:
		blk, _ := value.AsBlock(current)
		if index < 1 || index > int64(blk.Len()) {
			return nil, verror.NewScriptError(verror.ErrIDIndexOutOfRange,
				[3]string{"index out of range for series of length " + itoa(blk.Len()), "", ""})
		}
		return blk.Elements[index-1], nil
	case value.String:
		str, _ := value.AsString(current)
		runes := str.Runes
		if index < 1 || index > int64(len(runes)) {
			return nil, verror.NewScriptError(verror.ErrIDIndexOutOfRange,
				[3]string{"index out of range for string of length " + itoa(len(runes)), "", ""})
		}
		return value.StrVal(string(runes[index-1])), nil
	default:
		return nil, verror.NewScriptError(verror.ErrIDPathTypeMismatch, [3]string{"index requires block, group or string type", "", ""})
	}
}

// AssignInto performs the final write of a set-path, given the Traversal
// produced by Walk(..., stopBeforeLast=true) and the value to store.
func AssignInto(tr *Traversal, newVal core.Value) (core.Value, error) {
	if len(tr.Segments) < 2 {
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDInvalidPath, [3]string{"set-path requires at least 2 segments", "too short", ""})
	}
	if tr.Segments[0].Type == value.PathSegmentIndex {
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDImmutableTarget, [3]string{"literal base is not assignable", "", ""})
	}
	container := tr.Values[len(tr.Values)-1]
	finalSeg := tr.Segments[len(tr.Segments)-1]

	if container == nil || container.GetType() == value.Void {
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDNonePath, [3]string{"cannot assign to none value", "", ""})
	}

	switch finalSeg.Type {
	case value.PathSegmentIndex:
		index, _ := finalSeg.Value.(int64)
		if container.GetType() != value.Block {
			return value.NoneVal(), verror.NewScriptError(verror.ErrIDPathTypeMismatch, [3]string{"index assignment requires block type", "", ""})
		}
		blk, _ := value.AsBlock(container)
		if index < 1 || index > int64(blk.Len()) {
			return value.NoneVal(), verror.NewScriptError(verror.ErrIDIndexOutOfRange, [3]string{"index out of range", "", ""})
		}
		blk.Elements[index-1] = newVal
		return newVal, nil

	case value.PathSegmentWord:
		name, _ := finalSeg.Value.(string)
		if container.GetType() != value.Object {
			return value.NoneVal(), verror.NewScriptError(verror.ErrIDImmutableTarget, [3]string{"cannot assign field to non-object", "", ""})
		}
		obj, _ := value.AsObject(container)
		owner, ok := findFieldOwner(obj.Ctx, name)
		if !ok {
			return value.NoneVal(), verror.NewScriptError(verror.ErrIDNoSuchField, [3]string{name, "", ""})
		}
		owner.Bind(name, newVal)
		return newVal, nil

	default:
		return value.NoneVal(), verror.NewInternalError("unsupported path segment type for assignment", [3]string{})
	}
}

// findFieldOwner walks ctx's parent chain for the binding that already
// holds name, so an inherited field is written back to the prototype that
// declared it rather than shadowed onto the instance (matches the
// teacher's "bind to object's frame" behavior, generalized across a chain
// of more than two levels).
func findFieldOwner(ctx core.Binding, name string) (binder, bool) {
	for b := ctx; b != nil; b = b.ParentBinding() {
		if _, ok := b.GetSymbol(name); ok {
			if owner, ok := b.(binder); ok {
				return owner, true
			}
			return nil, false
		}
	}
	return nil, false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
