package parse

import (
	"testing"

	"github.com/zsx/viro-core/internal/value"
)

func TestParseFlatSequenceKeepsInfixAsWords(t *testing.T) {
	vals, err := Parse("1 + 2 + 3")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(vals) != 5 {
		t.Fatalf("len(vals) = %d, want 5 (no infix pre-folding)", len(vals))
	}
	if vals[0].GetType() != value.Integer {
		t.Errorf("vals[0] kind = %v, want Integer", vals[0].GetType())
	}
	if vals[1].GetType() != value.Word {
		t.Errorf("vals[1] kind = %v, want Word", vals[1].GetType())
	}
	name, _ := value.AsWord(vals[1])
	if name != "+" {
		t.Errorf("vals[1] = %q, want \"+\"", name)
	}
}

func TestParseBlockNestsElements(t *testing.T) {
	vals, err := Parse("[1 2 [3]]")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(vals) != 1 {
		t.Fatalf("len(vals) = %d, want 1", len(vals))
	}
	blk, ok := value.AsBlock(vals[0])
	if !ok {
		t.Fatalf("vals[0] is not a block")
	}
	if len(blk.Elements) != 3 {
		t.Fatalf("len(blk.Elements) = %d, want 3", len(blk.Elements))
	}
	inner, ok := value.AsBlock(blk.Elements[2])
	if !ok || len(inner.Elements) != 1 {
		t.Fatalf("nested block did not parse as [3]")
	}
}

func TestParseSetWordAndGetWord(t *testing.T) {
	vals, err := Parse("x: 10 :x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("len(vals) = %d, want 3", len(vals))
	}
	if vals[0].GetType() != value.SetWord {
		t.Errorf("vals[0] kind = %v, want SetWord", vals[0].GetType())
	}
	if vals[2].GetType() != value.GetWord {
		t.Errorf("vals[2] kind = %v, want GetWord", vals[2].GetType())
	}
}

func TestParsePathSplitsOnSlash(t *testing.T) {
	vals, err := Parse("grab/only")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(vals) != 1 {
		t.Fatalf("len(vals) = %d, want 1", len(vals))
	}
	path, ok := value.AsPath(vals[0])
	if !ok {
		t.Fatalf("vals[0] is not a path")
	}
	if len(path.Segments) != 2 {
		t.Fatalf("len(path.Segments) = %d, want 2", len(path.Segments))
	}
}

func TestParseDecimalLiteral(t *testing.T) {
	vals, err := Parse("3.14")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(vals) != 1 || vals[0].GetType() != value.Decimal {
		t.Fatalf("3.14 did not parse as a single decimal value")
	}
}

func TestParseUnclosedBlockErrors(t *testing.T) {
	_, err := Parse("[1 2")
	if err == nil {
		t.Fatal("expected an unclosed-block syntax error")
	}
}

func TestParseLitWordAndLogicKeywords(t *testing.T) {
	vals, err := Parse("'foo true false none")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(vals) != 4 {
		t.Fatalf("len(vals) = %d, want 4", len(vals))
	}
	if vals[0].GetType() != value.LitWord {
		t.Errorf("vals[0] kind = %v, want LitWord", vals[0].GetType())
	}
	if vals[1].GetType() != value.Logic || vals[2].GetType() != value.Logic {
		t.Errorf("true/false did not parse as Logic")
	}
	if vals[3].GetType() != value.Void {
		t.Errorf("none did not parse as Void")
	}
}
