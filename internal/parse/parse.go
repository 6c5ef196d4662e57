// Package parse turns Viro source text into a flat sequence of
// core.Value — spec.md §2's "reader": lexical analysis only, no operator
// precedence and no infix restructuring. A block or paren's contents
// nest via the same sequence reader. Left-to-right, enfix-aware
// evaluation of the resulting sequence is internal/eval's job, not
// this package's — unlike the teacher's parser, which pre-folded infix
// operators into ParenVal prefix groups at parse time, this reader hands
// the evaluator a plain flat sequence and lets its own lookback
// scheduler (spec.md §4.8) decide how `1 + 2` chains.
package parse

import (
	"strconv"
	"strings"

	"github.com/ericlagergren/decimal"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/tokenize"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

// Parse reads the whole of input into a flat top-level sequence.
func Parse(input string) ([]core.Value, *verror.Error) {
	toks, err := tokenize.NewTokenizer(input).Tokenize()
	if err != nil {
		return nil, makeSyntaxError(input, 0, verror.ErrIDInvalidSyntax, [3]string{err.Error(), "", ""})
	}
	p := &parser{tokens: toks, source: input}
	vals, perr := p.parseSequence()
	if perr != nil {
		return nil, perr
	}
	return vals, nil
}

type parser struct {
	tokens []tokenize.Token
	pos    int
	source string
}

func makeSyntaxError(input string, pos int, id string, args [3]string) *verror.Error {
	e := verror.NewSyntaxError(id, args)
	if input != "" {
		e.SetNear(snippetAround(input, pos))
	}
	return e
}

func snippetAround(input string, pos int) string {
	runes := []rune(input)
	if len(runes) == 0 {
		return ""
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(runes) {
		pos = len(runes) - 1
	}
	window := 12
	start := pos - window
	if start < 0 {
		start = 0
	}
	end := pos + window + 1
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func (p *parser) peek() tokenize.Token {
	if p.pos >= len(p.tokens) {
		return tokenize.Token{Type: tokenize.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() tokenize.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// parseSequence reads values until a closing bracket/paren or EOF —
// shared by the top level and by block/paren contents.
func (p *parser) parseSequence() ([]core.Value, *verror.Error) {
	var vals []core.Value
	for {
		tok := p.peek()
		if tok.Type == tokenize.TokenEOF || tok.Type == tokenize.TokenRBracket || tok.Type == tokenize.TokenRParen {
			return vals, nil
		}
		val, err := p.parseOne()
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
}

func (p *parser) parseOne() (core.Value, *verror.Error) {
	tok := p.advance()
	switch tok.Type {
	case tokenize.TokenString:
		return value.StrVal(tok.Value), nil

	case tokenize.TokenBinary:
		data, err := decodeHex(tok.Value)
		if err != nil {
			return nil, makeSyntaxError(p.source, tok.Column, verror.ErrIDInvalidLiteral, [3]string{tok.Value, "", ""})
		}
		return value.BinaryVal(data), nil

	case tokenize.TokenLBracket:
		elems, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != tokenize.TokenRBracket {
			return nil, makeSyntaxError(p.source, tok.Column, verror.ErrIDUnclosedBlock, [3]string{"[", "", ""})
		}
		p.advance()
		return value.BlockVal(elems), nil

	case tokenize.TokenRBracket:
		return nil, makeSyntaxError(p.source, tok.Column, verror.ErrIDInvalidSyntax, [3]string{"unexpected ']'", "", ""})

	case tokenize.TokenLParen:
		elems, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != tokenize.TokenRParen {
			return nil, makeSyntaxError(p.source, tok.Column, verror.ErrIDUnclosedParen, [3]string{"(", "", ""})
		}
		p.advance()
		return value.ParenVal(elems), nil

	case tokenize.TokenRParen:
		return nil, makeSyntaxError(p.source, tok.Column, verror.ErrIDInvalidSyntax, [3]string{"unexpected ')'", "", ""})

	case tokenize.TokenLiteral:
		return p.parseLiteral(tok)

	case tokenize.TokenEOF:
		return nil, makeSyntaxError(p.source, len([]rune(p.source)), verror.ErrIDUnexpectedEOF, [3]string{"", "", ""})

	default:
		return nil, makeSyntaxError(p.source, tok.Column, verror.ErrIDInvalidSyntax, [3]string{tok.Value, "", ""})
	}
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := strconv.ParseUint(s[i*2:i*2+1], 16, 8)
		if err != nil {
			return nil, err
		}
		lo, err := strconv.ParseUint(s[i*2+1:i*2+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(hi<<4 | lo)
	}
	return out, nil
}

// parseLiteral classifies a bare literal token into the value kind its
// spelling denotes (spec.md §2): number, decimal, keyword, datatype,
// get-/set-/lit-word, path, or plain word.
func (p *parser) parseLiteral(tok tokenize.Token) (core.Value, *verror.Error) {
	text := tok.Value

	switch text {
	case "true":
		return value.LogicVal(true), nil
	case "false":
		return value.LogicVal(false), nil
	case "none":
		return value.NoneVal(), nil
	}

	if len(text) > 1 && text[0] == ':' {
		rest := text[1:]
		if strings.Contains(rest, "/") {
			return p.parsePathText(rest, value.GetPath, tok)
		}
		return value.GetWordVal(rest), nil
	}

	if len(text) > 1 && text[0] == '\'' {
		rest := text[1:]
		if strings.Contains(rest, "/") {
			return p.parsePathText(rest, value.LitPath, tok)
		}
		return value.LitWordVal(rest), nil
	}

	if len(text) > 1 && text[len(text)-1] == ':' && !isNumericLiteral(text) {
		rest := text[:len(text)-1]
		if strings.Contains(rest, "/") {
			return p.parsePathText(rest, value.SetPath, tok)
		}
		return value.SetWordVal(rest), nil
	}

	if isNumericLiteral(text) {
		return parseNumber(text, p.source, tok.Column)
	}

	if len(text) > 1 && text[len(text)-1] == '!' {
		return value.DatatypeVal(text), nil
	}

	if strings.Contains(text, "/") {
		return p.parsePathText(text, value.Path, tok)
	}

	return value.WordVal(text), nil
}

func isNumericLiteral(text string) bool {
	s := text
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	return s[0] >= '0' && s[0] <= '9'
}

// parseNumber parses an integer or decimal literal (spec.md §3's integer!
// and decimal! kinds), grounded on the teacher's digit/decimal-point/
// exponent scanning and its use of ericlagergren/decimal for the decimal
// tower.
func parseNumber(text, source string, col int) (core.Value, *verror.Error) {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.IntVal(n), nil
	}
	d := new(decimal.Big)
	if _, ok := d.SetString(text); !ok {
		return nil, makeSyntaxError(source, col, verror.ErrIDInvalidLiteral, [3]string{text, "", ""})
	}
	scale := int16(0)
	if idx := strings.Index(text, "."); idx >= 0 {
		end := len(text)
		if e := strings.IndexAny(text, "eE"); e > idx {
			end = e
		}
		scale = int16(end - idx - 1)
	}
	return value.DecimalVal(d, scale), nil
}

// parsePathText splits a slash-delimited path spelling into segments
// (spec.md §4.4): a numeric segment becomes a PathSegmentIndex, anything
// else a PathSegmentWord.
func (p *parser) parsePathText(text string, kind value.Kind, tok tokenize.Token) (core.Value, *verror.Error) {
	parts := strings.Split(text, "/")
	segments := make([]value.PathSegment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, makeSyntaxError(p.source, tok.Column, verror.ErrIDInvalidSyntax, [3]string{"empty path segment", "", ""})
		}
		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			segments = append(segments, value.PathSegment{Type: value.PathSegmentIndex, Value: n})
			continue
		}
		segments = append(segments, value.PathSegment{Type: value.PathSegmentWord, Value: part})
	}
	return value.PathVal(kind, segments), nil
}
