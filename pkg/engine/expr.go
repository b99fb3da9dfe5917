package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The expression fallback is a deliberately small boolean language over
// resolved input values. No function calls, no attribute access, no
// assignment: comparisons, membership tests and boolean connectives
// only. Rules that need more are promoted to named evaluators.
//
// Grammar:
//
//	expr       = orExpr
//	orExpr     = andExpr { ("or" | "||") andExpr }
//	andExpr    = notExpr { ("and" | "&&") notExpr }
//	notExpr    = ("not" | "!") notExpr | comparison
//	comparison = primary [ ("==" | "!=" | "<" | "<=" | ">" | ">=" | "in") primary ]
//	primary    = literal | identifier | list | "(" expr ")"
//	list       = "[" [ literal { "," literal } ] "]"
//	literal    = string | number | "true" | "false" | "null"
//
// Identifiers are bound to the resolved values of the rule's inputs,
// keyed by the last segment of each input path.

// Expr is a compiled expression, reusable across evaluations.
type Expr struct {
	src  string
	root exprNode
}

// Compile parses an expression. The returned Expr is immutable and safe
// for concurrent Eval calls.
func Compile(src string) (*Expr, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, tokens: tokens}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.errorf(tok, "unexpected %q after expression", tok.text)
	}
	return &Expr{src: src, root: root}, nil
}

// CheckExpression reports whether src parses. Wired into catalog
// loading so malformed fallback rules are rejected before evaluation.
func CheckExpression(src string) error {
	_, err := Compile(src)
	return err
}

// Eval evaluates the expression against the given variables. Every node
// visit consumes one step of the budget; exceeding it aborts the
// evaluation.
func (e *Expr) Eval(vars map[string]any, stepBudget int) (any, error) {
	env := &evalEnv{src: e.src, vars: vars, remaining: stepBudget}
	return e.root.eval(env)
}

// String returns the expression source.
func (e *Expr) String() string {
	return e.src
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenOp      // == != < <= > >=
	tokenKeyword // and or not in true false null
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true,
	"true": true, "false": true, "null": true,
}

func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++
		case c == '[':
			tokens = append(tokens, token{tokenLBracket, "[", i})
			i++
		case c == ']':
			tokens = append(tokens, token{tokenRBracket, "]", i})
			i++
		case c == ',':
			tokens = append(tokens, token{tokenComma, ",", i})
			i++

		case c == '=' || c == '!' || c == '<' || c == '>':
			start := i
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{tokenOp, src[i : i+2], start})
				i += 2
				break
			}
			switch c {
			case '<', '>':
				tokens = append(tokens, token{tokenOp, string(c), start})
				i++
			case '!':
				tokens = append(tokens, token{tokenKeyword, "not", start})
				i++
			default:
				return nil, &ExpressionError{Expression: src, Pos: start, Message: "single '=' is not an operator, use '=='"}
			}

		case c == '&' || c == '|':
			start := i
			if i+1 >= len(src) || src[i+1] != c {
				return nil, &ExpressionError{Expression: src, Pos: start, Message: fmt.Sprintf("unexpected character %q", c)}
			}
			word := "and"
			if c == '|' {
				word = "or"
			}
			tokens = append(tokens, token{tokenKeyword, word, start})
			i += 2

		case c == '\'' || c == '"':
			start := i
			quote := c
			i++
			var sb strings.Builder
			for i < len(src) && src[i] != quote {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				sb.WriteByte(src[i])
				i++
			}
			if i >= len(src) {
				return nil, &ExpressionError{Expression: src, Pos: start, Message: "unterminated string literal"}
			}
			i++
			tokens = append(tokens, token{tokenString, sb.String(), start})

		case c >= '0' && c <= '9' || c == '-' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9':
			start := i
			i++
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokenNumber, src[start:i], start})

		case unicode.IsLetter(rune(c)) || c == '_':
			start := i
			for i < len(src) && (unicode.IsLetter(rune(src[i])) || unicode.IsDigit(rune(src[i])) || src[i] == '_') {
				i++
			}
			word := src[start:i]
			if keywords[word] {
				tokens = append(tokens, token{tokenKeyword, word, start})
			} else {
				tokens = append(tokens, token{tokenIdent, word, start})
			}

		default:
			return nil, &ExpressionError{Expression: src, Pos: i, Message: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	tokens = append(tokens, token{tokenEOF, "", len(src)})
	return tokens, nil
}

type parser struct {
	src    string
	tokens []token
	next   int
}

func (p *parser) peek() token {
	return p.tokens[p.next]
}

func (p *parser) advance() token {
	tok := p.tokens[p.next]
	if tok.kind != tokenEOF {
		p.next++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &ExpressionError{Expression: p.src, Pos: tok.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseExpr() (exprNode, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (exprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenKeyword && p.peek().text == "or" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (exprNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenKeyword && p.peek().text == "and" {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (exprNode, error) {
	if p.peek().kind == tokenKeyword && p.peek().text == "not" {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (exprNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	isOp := tok.kind == tokenOp
	isIn := tok.kind == tokenKeyword && tok.text == "in"
	if !isOp && !isIn {
		return left, nil
	}
	p.advance()

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: tok.text, left: left, right: right}, nil
}

func (p *parser) parsePrimary() (exprNode, error) {
	tok := p.advance()
	switch tok.kind {
	case tokenString:
		return &literalNode{value: tok.text}, nil

	case tokenNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q", tok.text)
		}
		return &literalNode{value: n}, nil

	case tokenKeyword:
		switch tok.text {
		case "true":
			return &literalNode{value: true}, nil
		case "false":
			return &literalNode{value: false}, nil
		case "null":
			return &literalNode{value: nil}, nil
		}
		return nil, p.errorf(tok, "unexpected keyword %q", tok.text)

	case tokenIdent:
		return &identNode{name: tok.text}, nil

	case tokenLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokenRParen {
			return nil, p.errorf(closing, "expected ')'")
		}
		return inner, nil

	case tokenLBracket:
		var elems []exprNode
		if p.peek().kind != tokenRBracket {
			for {
				elem, err := p.parsePrimary()
				if err != nil {
					return nil, err
				}
				elems = append(elems, elem)
				if p.peek().kind != tokenComma {
					break
				}
				p.advance()
			}
		}
		if closing := p.advance(); closing.kind != tokenRBracket {
			return nil, p.errorf(closing, "expected ']'")
		}
		return &listNode{elems: elems}, nil

	case tokenEOF:
		return nil, p.errorf(tok, "unexpected end of expression")

	default:
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
}
