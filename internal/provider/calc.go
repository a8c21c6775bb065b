package provider

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/runger/pal/internal/result"
)

// calcScore is the fixed tier for calculator results. It sits above
// generic fuzzy matches but below a boosted exact application match.
const calcScore = 2200

// CalcProvider evaluates arithmetic expressions typed into the palette.
type CalcProvider struct{}

// NewCalcProvider creates the calculator provider.
func NewCalcProvider() *CalcProvider { return &CalcProvider{} }

// Name implements FastProvider.
func (p *CalcProvider) Name() string { return "calculator" }

// Search implements FastProvider. Only queries that parse as an arithmetic
// expression with at least one operator produce a result.
func (p *CalcProvider) Search(query string) []result.SearchResult {
	expr := strings.TrimSpace(query)
	if !looksArithmetic(expr) {
		return nil
	}

	value, err := evalExpr(expr)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}

	formatted := formatNumber(value)
	return []result.SearchResult{{
		Title:    formatted,
		Subtitle: expr + " =",
		Category: result.CategoryConversion,
		Score:    calcScore,
		Action:   CopyText{Text: formatted},
	}}
}

// looksArithmetic filters out queries that are clearly not expressions
// before running the parser: they must contain a digit and an operator and
// nothing outside the expression alphabet.
func looksArithmetic(s string) bool {
	if s == "" {
		return false
	}
	hasDigit := false
	hasOperator := false
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '+' || r == '*' || r == '/' || r == '%' || r == '^':
			hasOperator = true
		case r == '-':
			// A leading minus is a sign, not an operator.
			if i > 0 {
				hasOperator = true
			}
		case r == '.' || r == '(' || r == ')' || r == ' ':
		default:
			return false
		}
	}
	return hasDigit && hasOperator
}

// formatNumber trims trailing zeros so "4.0" renders as "4".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// exprParser is a recursive-descent parser over one expression:
//
//	expr   = term   { ('+' | '-') term }
//	term   = power  { ('*' | '/' | '%') power }
//	power  = unary  [ '^' power ]
//	unary  = [ '-' ] primary
//	primary = number | '(' expr ')'
type exprParser struct {
	input []rune
	pos   int
}

func evalExpr(s string) (float64, error) {
	p := &exprParser{input: []rune(s)}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected input at offset %d", p.pos)
	}
	return v, nil
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() rune {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		case '%':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		// Right-associative.
		exp, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parsePrimary()
		return -v, err
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	switch r := p.peek(); {
	case r == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case unicode.IsDigit(r) || r == '.':
		return p.parseNumber()
	default:
		return 0, fmt.Errorf("unexpected character %q", r)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) &&
		(unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	return strconv.ParseFloat(string(p.input[start:p.pos]), 64)
}
