// Package value implements the evaluator's uniform value cell (spec.md §3)
// and the supporting typeset/parameter/function descriptors (spec.md §3,
// §4.6). Every runtime value is an instance of the single Cell struct;
// Kind discriminates how Payload is interpreted.
package value

import "github.com/zsx/viro-core/internal/core"

// Kind is the closed set of value kinds from spec.md §3, plus the small
// number of evaluator-internal kinds spec.md's ellipsis ("...") leaves
// room for (Frame, Error, Varargs, PickupMarker) and the Action kind
// carried over from the teacher for polymorphic type-dispatch natives.
type Kind = core.ValueType

const (
	Void Kind = iota
	Blank
	Logic
	Integer
	Decimal
	Char
	Pair
	Date
	String
	Binary
	Block
	Group // spec's "group"; teacher calls this "paren" — same kind, renamed to match spec.md verbatim
	Path
	SetPath
	GetPath
	LitPath
	Word
	SetWord
	GetWord
	LitWord
	Bar
	LitBar
	Function
	FrameKind // reified binding context exposed as a first-class value
	Object
	Port
	ErrorKind
	Varargs
	PickupMarker
	Action // type-dispatch polymorphic callable (domain extension, not in spec's literal list)
	Datatype
)

var kindNames = map[Kind]string{
	Void: "void", Blank: "blank", Logic: "logic", Integer: "integer",
	Decimal: "decimal", Char: "char", Pair: "pair", Date: "date",
	String: "string", Binary: "binary", Block: "block", Group: "group",
	Path: "path", SetPath: "set-path", GetPath: "get-path", LitPath: "lit-path",
	Word: "word", SetWord: "set-word", GetWord: "get-word", LitWord: "lit-word",
	Bar: "bar", LitBar: "lit-bar", Function: "function", FrameKind: "frame",
	Object: "object", Port: "port", ErrorKind: "error", Varargs: "varargs",
	PickupMarker: "pickup-marker", Action: "action", Datatype: "datatype!",
}

func KindName(k Kind) string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Legacy aliases kept so the pre-existing ambient/native call sites
// written against the teacher's names keep compiling unchanged.
const (
	TypeNone     = Void
	TypeLogic    = Logic
	TypeInteger  = Integer
	TypeDecimal  = Decimal
	TypeString   = String
	TypeBinary   = Binary
	TypeBlock    = Block
	TypeParen    = Group
	TypePath     = Path
	TypeWord     = Word
	TypeSetWord  = SetWord
	TypeGetWord  = GetWord
	TypeLitWord  = LitWord
	TypeFunction = Function
	TypeObject   = Object
	TypePort     = Port
	TypeDatatype = Datatype
	TypeAction   = Action
)

// IsWord reports whether k is any of the four word kinds.
func IsWord(k Kind) bool {
	return k == Word || k == SetWord || k == GetWord || k == LitWord
}

// IsPath reports whether k is any of the four path kinds.
func IsPath(k Kind) bool {
	return k == Path || k == SetPath || k == GetPath || k == LitPath
}

// IsSeries reports whether k supports series (indexable) operations.
func IsSeries(k Kind) bool {
	return k == Block || k == Group || k == String || k == Binary
}

// TypeToString renders a kind for error messages; kept for the teacher's
// call sites that used this name instead of KindName.
func TypeToString(k Kind) string { return KindName(k) }
