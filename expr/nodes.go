// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package expr

import (
	"fmt"

	"github.com/arcboundrav/layer-sort/rpgerr"
)

// Const is a constant-value expression node. Per spec §4.1, constants are
// deep-copied on every evaluation so a later reduction mutating the result
// in place never corrupts the authored value for the next evaluation.
type Const struct {
	Value Value
}

// NewConst builds a constant expression node.
func NewConst(value Value) *Const {
	return &Const{Value: value}
}

// Evaluate returns a deep copy of the constant value.
func (c *Const) Evaluate(_ Context) (Value, error) {
	return deepCopy(c.Value), nil
}

// AttributeRead reads a named attribute off a target object, or off the
// current subject when Target is nil. If Target is itself an expression
// it is evaluated first, per spec §4.1's table.
type AttributeRead struct {
	Target Expression
	Attr   string
}

// NewAttributeRead builds an attribute-read node against the subject.
func NewAttributeRead(attr string) *AttributeRead {
	return &AttributeRead{Attr: attr}
}

// NewAttributeReadOf builds an attribute-read node against a target
// sub-expression rather than the ambient subject.
func NewAttributeReadOf(target Expression, attr string) *AttributeRead {
	return &AttributeRead{Target: target, Attr: attr}
}

// Evaluate resolves the target then reads the attribute, through the
// overlay when one is present in ctx so the read honors prior writes in
// the current snapshot pass.
func (a *AttributeRead) Evaluate(ctx Context) (Value, error) {
	target, err := resolveTarget(a.Target, ctx)
	if err != nil {
		return nil, err
	}
	if ctx.Overlay != nil {
		return ctx.Overlay.Query(target, a.Attr)
	}
	return target.BaseAttr(a.Attr)
}

// LockedAttributeRead behaves like AttributeRead except the first
// evaluation memoizes its result; every subsequent call returns the memo
// rather than re-reading the attribute. Spec §9 Open Question: the
// original Python guard is inverted (it re-reads on a *non-nil* memo,
// which can never re-lock past the first real value); this implements the
// evidently-intended first-call-stores semantics instead.
type LockedAttributeRead struct {
	inner   *AttributeRead
	locked  bool
	memo    Value
	memoErr error
}

// NewLockedAttributeRead builds a memoizing attribute-read node.
func NewLockedAttributeRead(attr string) *LockedAttributeRead {
	return &LockedAttributeRead{inner: NewAttributeRead(attr)}
}

// NewLockedAttributeReadOf builds a memoizing attribute-read node against
// a target sub-expression.
func NewLockedAttributeReadOf(target Expression, attr string) *LockedAttributeRead {
	return &LockedAttributeRead{inner: NewAttributeReadOf(target, attr)}
}

// Evaluate returns the memoized value after the first call.
func (l *LockedAttributeRead) Evaluate(ctx Context) (Value, error) {
	if l.locked {
		return l.memo, l.memoErr
	}
	l.memo, l.memoErr = l.inner.Evaluate(ctx)
	l.locked = true
	return l.memo, l.memoErr
}

// MethodCall invokes a named method on a target (or the subject), passing
// named arguments that are themselves expressions evaluated against the
// same context first.
type MethodCall struct {
	Target Expression
	Method string
	Args   map[string]Expression
}

// NewMethodCall builds a method-call node against the subject.
func NewMethodCall(method string, args map[string]Expression) *MethodCall {
	return &MethodCall{Method: method, Args: args}
}

// NewMethodCallOf builds a method-call node against a target sub-expression.
func NewMethodCallOf(target Expression, method string, args map[string]Expression) *MethodCall {
	return &MethodCall{Target: target, Method: method, Args: args}
}

// Evaluate resolves the target, evaluates each named argument, then
// invokes the method.
func (m *MethodCall) Evaluate(ctx Context) (Value, error) {
	target, err := resolveTarget(m.Target, ctx)
	if err != nil {
		return nil, err
	}
	invoker, ok := target.(MethodInvoker)
	if !ok {
		return nil, rpgerr.InvalidTarget(fmt.Sprintf("%s does not support method calls", target.ID()))
	}
	resolvedArgs := make(map[string]Value, len(m.Args))
	for name, argExpr := range m.Args {
		v, err := argExpr.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		resolvedArgs[name] = v
	}
	return invoker.InvokeMethod(m.Method, resolvedArgs)
}

// BinaryOp applies a binary operator to two operands, which may themselves
// be expressions (the current subject is propagated into each before it
// is evaluated) or fixed-at-authoring-time values.
type BinaryOp struct {
	Op    func(left, right Value) (Value, error)
	Left  Expression
	Right Expression
}

// NewBinaryOp builds a binary-operation node.
func NewBinaryOp(op func(left, right Value) (Value, error), left, right Expression) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

// Evaluate evaluates both operands under ctx then applies Op.
func (b *BinaryOp) Evaluate(ctx Context) (Value, error) {
	left, err := b.Left.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return b.Op(left, right)
}

// ReductionOp names which reduction a Reduction node performs.
type ReductionOp int

// The three reduction kinds named in spec §4.1.
const (
	ReduceConcat ReductionOp = iota
	ReduceUnion
	ReduceDifference
)

// Reduction reads subject.Attr's current value (through the overlay) and
// combines it with Operand via concatenation, set-union, or set-difference.
// This is the node shape behind "gain these keyword abilities",
// "add these subtypes", "lose these subtypes" deltas.
type Reduction struct {
	Op      ReductionOp
	Attr    string
	Operand Expression
}

// NewReduction builds a reduction node over the subject's named attribute.
func NewReduction(op ReductionOp, attr string, operand Expression) *Reduction {
	return &Reduction{Op: op, Attr: attr, Operand: operand}
}

// Evaluate reads the subject's current attribute value, evaluates the
// operand, and combines them per Op.
func (r *Reduction) Evaluate(ctx Context) (Value, error) {
	if ctx.Subject == nil {
		return nil, rpgerr.InvalidTarget("reduction has no subject in context")
	}
	var current Value
	var err error
	if ctx.Overlay != nil {
		current, err = ctx.Overlay.Query(ctx.Subject, r.Attr)
	} else {
		current, err = ctx.Subject.BaseAttr(r.Attr)
	}
	if err != nil {
		return nil, err
	}
	operand, err := r.Operand.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	switch r.Op {
	case ReduceConcat:
		currentSlice, ok := current.([]Value)
		if !ok {
			return nil, rpgerr.InvalidTarget(fmt.Sprintf("concat reduction on non-slice attribute %q", r.Attr))
		}
		operandSlice, ok := operand.([]Value)
		if !ok {
			return nil, rpgerr.InvalidTarget(fmt.Sprintf("concat reduction operand for %q is not a slice", r.Attr))
		}
		out := make([]Value, 0, len(currentSlice)+len(operandSlice))
		out = append(out, currentSlice...)
		out = append(out, operandSlice...)
		return out, nil
	case ReduceUnion:
		currentSet, operandSet, err := asStringSets(r.Attr, current, operand)
		if err != nil {
			return nil, err
		}
		return currentSet.Union(operandSet), nil
	case ReduceDifference:
		currentSet, operandSet, err := asStringSets(r.Attr, current, operand)
		if err != nil {
			return nil, err
		}
		return currentSet.Difference(operandSet), nil
	default:
		return nil, fmt.Errorf("expr: unknown reduction op %d", r.Op)
	}
}

func asStringSets(attr string, current, operand Value) (StringSet, StringSet, error) {
	currentSet, ok := current.(StringSet)
	if !ok {
		return nil, nil, rpgerr.InvalidTarget(fmt.Sprintf("set reduction on non-set attribute %q", attr))
	}
	operandSet, ok := operand.(StringSet)
	if !ok {
		return nil, nil, rpgerr.InvalidTarget(fmt.Sprintf("set reduction operand for %q is not a set", attr))
	}
	return currentSet, operandSet, nil
}

// ObjectCountOfSelection evaluates to the cardinality of a selection's
// filtered set, backing deltas like "gets +1/+0 for each artifact you
// control".
type ObjectCountOfSelection struct {
	Selection Counter
}

// NewObjectCountOfSelection builds a node counting a selection's matches.
func NewObjectCountOfSelection(selection Counter) *ObjectCountOfSelection {
	return &ObjectCountOfSelection{Selection: selection}
}

// Evaluate returns the selection's cardinality.
func (o *ObjectCountOfSelection) Evaluate(ctx Context) (Value, error) {
	return o.Selection.Count(ctx)
}

// Timestamp evaluates to the ambient clock's current reading, used by
// deltas that need to stamp an object with "now" at apply time (e.g. a
// marker's timestamp, or an effect's authoring timestamp when generated
// dynamically).
type Timestamp struct{}

// NewTimestamp builds a timestamp node.
func NewTimestamp() *Timestamp { return &Timestamp{} }

// Evaluate calls ctx.Now.
func (t *Timestamp) Evaluate(ctx Context) (Value, error) {
	if ctx.Now == nil {
		return nil, fmt.Errorf("expr: no timestamp source in context")
	}
	return ctx.Now(), nil
}

// FreshID evaluates to a freshly minted unique identifier from the ambient
// id source, used by deltas that assign a new stable id at apply time.
type FreshID struct{}

// NewFreshID builds a fresh-identifier node.
func NewFreshID() *FreshID { return &FreshID{} }

// Evaluate calls ctx.FreshID.
func (f *FreshID) Evaluate(ctx Context) (Value, error) {
	if ctx.FreshID == nil {
		return nil, fmt.Errorf("expr: no id source in context")
	}
	return ctx.FreshID(), nil
}
