package expr

import (
	"fmt"
	"unicode"

	"github.com/pkg/errors"
)

// TokenKind classifies a token.
type TokenKind int

const (
	Operand TokenKind = iota
	Operator
	LeftParen
	RightParen
)

// Token is a lexical unit of an expression.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// SyntaxError reports a malformed expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Msg)
}

var precedence = map[string]int{"+": 1, "-": 1, "*": 2, "/": 2}

// Parse validates an infix expression and builds its tree.
func Parse(expression string) (*Node, error) {
	tokens, err := Tokenize(expression)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid expression")
	}

	if err := Validate(tokens); err != nil {
		return nil, errors.WithMessage(err, "invalid expression")
	}

	return BuildTree(ToPostfix(tokens))
}

// Tokenize splits an expression into identifiers, numbers, operators and
// parentheses. Whitespace is skipped.
func Tokenize(expression string) ([]Token, error) {
	runes := []rune(expression)
	tokens := make([]Token, 0, len(runes))

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, Token{Kind: LeftParen, Text: "(", Pos: i})
			i++
		case r == ')':
			tokens = append(tokens, Token{Kind: RightParen, Text: ")", Pos: i})
			i++
		case precedence[string(r)] > 0:
			tokens = append(tokens, Token{Kind: Operator, Text: string(r), Pos: i})
			i++
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) &&
				(runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			tokens = append(tokens,
				Token{Kind: Operand, Text: string(runes[start:i]), Pos: start})
		case unicode.IsDigit(r):
			start := i
			i = scanNumber(runes, i)
			if i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i])) {
				return nil, &SyntaxError{Pos: i, Msg: "identifier cannot start with a digit"}
			}
			tokens = append(tokens,
				Token{Kind: Operand, Text: string(runes[start:i]), Pos: start})
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}

	return tokens, nil
}

func scanNumber(runes []rune, i int) int {
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}

	if i+1 < len(runes) && runes[i] == '.' && unicode.IsDigit(runes[i+1]) {
		i++
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}
	}

	return i
}

// Validate checks operand/operator alternation and parenthesis balance.
// Unary operators are not accepted.
func Validate(tokens []Token) error {
	if len(tokens) == 0 {
		return &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	depth := 0
	expectOperand := true

	for _, t := range tokens {
		switch t.Kind {
		case Operand:
			if !expectOperand {
				return &SyntaxError{Pos: t.Pos, Msg: "missing operator before " + t.Text}
			}
			expectOperand = false
		case LeftParen:
			if !expectOperand {
				return &SyntaxError{Pos: t.Pos, Msg: "missing operator before ("}
			}
			depth++
		case RightParen:
			if expectOperand {
				return &SyntaxError{Pos: t.Pos, Msg: "missing operand before )"}
			}
			if depth == 0 {
				return &SyntaxError{Pos: t.Pos, Msg: "unmatched )"}
			}
			depth--
		case Operator:
			if expectOperand {
				return &SyntaxError{Pos: t.Pos, Msg: "missing operand before " + t.Text}
			}
			expectOperand = true
		}
	}

	last := tokens[len(tokens)-1]
	if expectOperand {
		return &SyntaxError{Pos: last.Pos, Msg: "expression ends with an operator"}
	}

	if depth != 0 {
		return &SyntaxError{Pos: last.Pos, Msg: "unclosed ("}
	}

	return nil
}

// ToPostfix reorders validated tokens into postfix form. Operators of equal
// precedence associate to the left.
func ToPostfix(tokens []Token) []Token {
	postfix := make([]Token, 0, len(tokens))
	stack := make([]Token, 0)

	for _, t := range tokens {
		switch t.Kind {
		case Operand:
			postfix = append(postfix, t)
		case LeftParen:
			stack = append(stack, t)
		case RightParen:
			for len(stack) > 0 && stack[len(stack)-1].Kind != LeftParen {
				postfix = append(postfix, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = stack[:len(stack)-1]
		case Operator:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != Operator || precedence[top.Text] < precedence[t.Text] {
					break
				}
				postfix = append(postfix, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		}
	}

	for len(stack) > 0 {
		postfix = append(postfix, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}

	return postfix
}

// BuildTree builds the expression tree from postfix tokens.
func BuildTree(postfix []Token) (*Node, error) {
	stack := make([]*Node, 0, len(postfix))

	for _, t := range postfix {
		switch t.Kind {
		case Operand:
			stack = append(stack, Leaf(t.Text))
		case Operator:
			if len(stack) < 2 {
				return nil, errors.Errorf("operator %s at position %d lacks operands", t.Text, t.Pos)
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], Binary(t.Text, left, right))
		default:
			return nil, errors.Errorf("unexpected %q in postfix input", t.Text)
		}
	}

	if len(stack) != 1 {
		return nil, errors.Errorf("postfix input leaves %d trees", len(stack))
	}

	return stack[0], nil
}
