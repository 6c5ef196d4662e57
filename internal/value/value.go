package value

import (
	"fmt"

	"github.com/zsx/viro-core/internal/core"
)

// Cell is the evaluator's single uniform value representation
// (spec.md §3): "A fixed-size cell" carrying kind, flags, payload, and an
// optional binding. Every constructor in this package returns a Cell;
// every accessor in this package unwraps one.
//
// Cells have location-bound lifetime: a Cell in a Block's Elements is
// owned by that Block; a Cell in a frame's argument slice is owned by
// that frame; a Cell in an output slot is owned by the caller (spec.md §3).
type Cell struct {
	Kind    Kind
	Flags   core.Flags
	Payload any
	Binding core.Binding
}

func (c Cell) GetType() core.ValueType { return c.Kind }
func (c Cell) GetPayload() any         { return c.Payload }
func (c Cell) GetFlags() core.Flags    { return c.Flags }
func (c Cell) GetBinding() core.Binding { return c.Binding }

// WithFlags returns a copy of c with its flag set replaced by f.
func (c Cell) WithFlags(f core.Flags) core.Value {
	c.Flags = f
	return c
}

// WithBinding returns a copy of c bound to ctx.
func (c Cell) WithBinding(ctx core.Binding) core.Value {
	c.Binding = ctx
	return c
}

func (c Cell) Equals(other core.Value) bool {
	if other == nil || other.GetType() != c.Kind {
		return false
	}
	switch c.Kind {
	case Void, Blank:
		return true
	case Logic:
		return c.Payload.(bool) == other.GetPayload().(bool)
	case Integer:
		return c.Payload.(int64) == other.GetPayload().(int64)
	case Char:
		return c.Payload.(rune) == other.GetPayload().(rune)
	case String:
		a, _ := c.Payload.(*StringValue)
		b, _ := other.GetPayload().(*StringValue)
		return a != nil && b != nil && a.String() == b.String()
	case Word, SetWord, GetWord, LitWord, Bar, LitBar, Datatype:
		return c.Payload.(string) == other.GetPayload().(string)
	default:
		return c.Payload == other.GetPayload()
	}
}

func (c Cell) String() string {
	switch c.Kind {
	case Void:
		return ""
	case Blank:
		return "_"
	case Logic:
		if c.Payload.(bool) {
			return "true"
		}
		return "false"
	case Integer:
		return fmt.Sprintf("%d", c.Payload.(int64))
	case Char:
		return string(c.Payload.(rune))
	case String:
		if s, ok := c.Payload.(*StringValue); ok {
			return s.String()
		}
	case Word, LitWord:
		return c.Payload.(string)
	case SetWord:
		return c.Payload.(string) + ":"
	case GetWord:
		return ":" + c.Payload.(string)
	case Bar:
		return "|"
	case LitBar:
		return "'|"
	case Datatype:
		return c.Payload.(string)
	case Block:
		if b, ok := c.Payload.(*BlockValue); ok {
			return b.Mold(Block)
		}
	case Group:
		if b, ok := c.Payload.(*BlockValue); ok {
			return b.Mold(Group)
		}
	case Function:
		if f, ok := c.Payload.(*Function); ok {
			return f.String()
		}
	}
	return fmt.Sprintf("%s!", KindName(c.Kind))
}

var _ core.Value = Cell{}

// --- constructors -----------------------------------------------------

func NoneVal() core.Value              { return Cell{Kind: Void} }
func BlankVal() core.Value             { return Cell{Kind: Blank} }
func LogicVal(b bool) core.Value       { return Cell{Kind: Logic, Payload: b} }
func IntVal(i int64) core.Value        { return Cell{Kind: Integer, Payload: i} }
func CharVal(r rune) core.Value        { return Cell{Kind: Char, Payload: r} }
func StrVal(s string) core.Value       { return Cell{Kind: String, Payload: NewStringValue(s)} }
func WordVal(sym string) core.Value    { return Cell{Kind: Word, Payload: sym} }
func SetWordVal(sym string) core.Value { return Cell{Kind: SetWord, Payload: sym} }
func GetWordVal(sym string) core.Value { return Cell{Kind: GetWord, Payload: sym} }
func LitWordVal(sym string) core.Value { return Cell{Kind: LitWord, Payload: sym} }
func BarVal() core.Value               { return Cell{Kind: Bar} }
func LitBarVal() core.Value            { return Cell{Kind: LitBar} }
func DatatypeVal(name string) core.Value { return Cell{Kind: Datatype, Payload: name} }

func BlockVal(elements []core.Value) core.Value {
	return Cell{Kind: Block, Payload: &BlockValue{Elements: elements}}
}

func ParenVal(elements []core.Value) core.Value {
	return Cell{Kind: Group, Payload: &BlockValue{Elements: elements}}
}

func FuncVal(fn *Function) core.Value {
	return Cell{Kind: Function, Payload: fn}
}

func BinaryVal(data []byte) core.Value {
	return Cell{Kind: Binary, Payload: &BinaryValue{Bytes: data}}
}

// Legacy constructor spellings (teacher's `New*Val` names), preserved so
// existing call sites compile unchanged.
func NewNoneVal() core.Value                { return NoneVal() }
func NewLogicVal(b bool) core.Value         { return LogicVal(b) }
func NewIntVal(i int64) core.Value          { return IntVal(i) }
func NewStrVal(s string) core.Value         { return StrVal(s) }
func NewWordVal(s string) core.Value        { return WordVal(s) }
func NewSetWordVal(s string) core.Value     { return SetWordVal(s) }
func NewGetWordVal(s string) core.Value     { return GetWordVal(s) }
func NewLitWordVal(s string) core.Value     { return LitWordVal(s) }
func NewBlockVal(e []core.Value) core.Value { return BlockVal(e) }
func NewParenVal(e []core.Value) core.Value { return ParenVal(e) }
func NewFuncVal(fn *Function) core.Value    { return FuncVal(fn) }
func NewDatatypeVal(s string) core.Value    { return DatatypeVal(s) }
func NewBinaryVal(b []byte) core.Value      { return BinaryVal(b) }

// --- accessors ----------------------------------------------------------

func cellPayload(v core.Value) any {
	if v == nil {
		return nil
	}
	return v.GetPayload()
}

func AsInteger(v core.Value) (int64, bool) {
	if v == nil || v.GetType() != Integer {
		return 0, false
	}
	i, ok := cellPayload(v).(int64)
	return i, ok
}
func AsIntValue(v core.Value) (int64, bool) { return AsInteger(v) }

func AsLogic(v core.Value) (bool, bool) {
	if v == nil || v.GetType() != Logic {
		return false, false
	}
	b, ok := cellPayload(v).(bool)
	return b, ok
}
func AsLogicValue(v core.Value) (bool, bool) { return AsLogic(v) }

func AsChar(v core.Value) (rune, bool) {
	if v == nil || v.GetType() != Char {
		return 0, false
	}
	r, ok := cellPayload(v).(rune)
	return r, ok
}

func AsString(v core.Value) (*StringValue, bool) {
	if v == nil || v.GetType() != String {
		return nil, false
	}
	s, ok := cellPayload(v).(*StringValue)
	return s, ok
}
func AsStringValue(v core.Value) (*StringValue, bool) { return AsString(v) }

func AsWord(v core.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	k := v.GetType()
	if !IsWord(k) && k != Bar && k != LitBar {
		return "", false
	}
	s, ok := cellPayload(v).(string)
	return s, ok
}
func AsWordValue(v core.Value) (string, bool) { return AsWord(v) }

func AsBlock(v core.Value) (*BlockValue, bool) {
	if v == nil || (v.GetType() != Block && v.GetType() != Group) {
		return nil, false
	}
	b, ok := cellPayload(v).(*BlockValue)
	return b, ok
}
func AsBlockValue(v core.Value) (*BlockValue, bool) { return AsBlock(v) }

func AsFunction(v core.Value) (*Function, bool) {
	if v == nil || v.GetType() != Function {
		return nil, false
	}
	f, ok := cellPayload(v).(*Function)
	return f, ok
}
func AsFunctionValue(v core.Value) (*Function, bool) { return AsFunction(v) }

func AsDatatype(v core.Value) (string, bool) {
	if v == nil || v.GetType() != Datatype {
		return "", false
	}
	s, ok := cellPayload(v).(string)
	return s, ok
}
func AsDatatypeValue(v core.Value) (string, bool) { return AsDatatype(v) }

func AsBinary(v core.Value) (*BinaryValue, bool) {
	if v == nil || v.GetType() != Binary {
		return nil, false
	}
	b, ok := cellPayload(v).(*BinaryValue)
	return b, ok
}
func AsBinaryValue(v core.Value) (*BinaryValue, bool) { return AsBinary(v) }

// IsTruthy implements spec.md's conditional-truth rule: false and
// void/blank are falsy, everything else (including 0, "", []) is truthy.
func IsTruthy(v core.Value) bool {
	if v == nil {
		return false
	}
	switch v.GetType() {
	case Void, Blank:
		return false
	case Logic:
		b, _ := AsLogic(v)
		return b
	default:
		return true
	}
}

// StripUnevaluated returns a copy of v with FlagUnevaluated cleared —
// used by lit-word/lit-path/lit-bar evaluation (spec.md §4.5).
func StripUnevaluated(v core.Value) core.Value {
	return v.WithFlags(v.GetFlags().Clear(core.FlagUnevaluated))
}
