package instant

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// MaxIntBits bounds the size of integer results so that expressions like
// 9**9**9 fail fast instead of burning CPU.
const MaxIntBits = 1 << 16

var (
	errSyntax   = errors.New("syntax error")
	errZeroDiv  = errors.New("division by zero")
	errOverflow = errors.New("numeric overflow")
	errDomain   = errors.New("math domain error")
)

// number is an arbitrary-precision integer or a float. Integer arithmetic
// stays integral until a true division, a float literal or a negative
// exponent forces a float.
type number struct {
	i       *big.Int
	f       float64
	isFloat bool
}

func intNum(i *big.Int) number  { return number{i: i} }
func floatNum(f float64) number { return number{f: f, isFloat: true} }

// float converts n to a float64. Integers too large for a float are an overflow.
func (n number) float() (float64, error) {
	if n.isFloat {
		return n.f, nil
	}
	f, _ := new(big.Float).SetInt(n.i).Float64()
	if math.IsInf(f, 0) {
		return 0, errOverflow
	}
	return f, nil
}

func (n number) isZero() bool {
	if n.isFloat {
		return n.f == 0
	}
	return n.i.Sign() == 0
}

// Evaluate parses and evaluates a pure arithmetic expression over numeric
// literals, parentheses and the operators + - * / % **. It returns the result
// formatted the way an interactive calculator prints it: "4" for integers,
// "2.0" or "0.5" for floats.
func Evaluate(expr string) (string, error) {
	p := &parser{src: expr}
	p.next()
	n, err := p.parseExpr()
	if err != nil {
		return "", err
	}
	if p.tok.kind != tokEOF {
		return "", fmt.Errorf("%w: unexpected %q at %d", errSyntax, p.tok.text, p.tok.pos)
	}
	return format(n)
}

func format(n number) (string, error) {
	if !n.isFloat {
		return n.i.String(), nil
	}
	f := n.f
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", errOverflow
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0", nil
		}
		return "0.0", nil
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil {
		return "", fmt.Errorf("format %v: %w", f, err)
	}
	if exp < -4 || exp >= 16 {
		return sci, nil
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s, nil
}

// --- Lexer ---

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokOp
	tokLParen
	tokRParen
	tokInvalid
)

type token struct {
	kind tokKind
	text string
	num  number
	pos  int
}

type parser struct {
	src string
	pos int
	tok token
}

func (p *parser) next() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.src[p.pos]
	switch {
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case c == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
		p.pos += 2
		p.tok = token{kind: tokOp, text: "**", pos: start}
	case strings.IndexByte("+-*/%", c) >= 0:
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	case isDigit(c) || c == '.':
		p.lexNumber(start)
	default:
		p.pos++
		p.tok = token{kind: tokInvalid, text: string(c), pos: start}
	}
}

func (p *parser) lexNumber(start int) {
	isFloat := false
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		isFloat = true
		p.pos++
		if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		digits := p.pos
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		if p.pos == digits {
			p.tok = token{kind: tokInvalid, text: p.src[start:p.pos], pos: start}
			return
		}
	}
	text := p.src[start:p.pos]
	// A literal glued to a letter ("2x", "1_000", "0x1f") is not a number.
	if p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
		p.tok = token{kind: tokInvalid, text: text, pos: start}
		return
	}
	if text == "." {
		p.tok = token{kind: tokInvalid, text: text, pos: start}
		return
	}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.tok = token{kind: tokInvalid, text: text, pos: start}
			return
		}
		p.tok = token{kind: tokNum, text: text, num: floatNum(f), pos: start}
		return
	}
	// Decimal integers other than zero may not carry leading zeros, so dates
	// like "2024-01-01" are not treated as arithmetic.
	if len(text) > 1 && text[0] == '0' && strings.Trim(text, "0") != "" {
		p.tok = token{kind: tokInvalid, text: text, pos: start}
		return
	}
	i, ok := new(big.Int).SetString(text, 10)
	if !ok || i.BitLen() > MaxIntBits {
		p.tok = token{kind: tokInvalid, text: text, pos: start}
		return
	}
	p.tok = token{kind: tokNum, text: text, num: intNum(i), pos: start}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c)
}

// --- Parser ---
//
//	expr  := term (('+' | '-') term)*
//	term  := unary (('*' | '/' | '%') unary)*
//	unary := ('+' | '-') unary | power
//	power := atom ('**' unary)?
//	atom  := number | '(' expr ')'

func (p *parser) parseExpr() (number, error) {
	left, err := p.parseTerm()
	if err != nil {
		return number{}, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return number{}, err
		}
		if left, err = apply(op, left, right); err != nil {
			return number{}, err
		}
	}
	return left, nil
}

func (p *parser) parseTerm() (number, error) {
	left, err := p.parseUnary()
	if err != nil {
		return number{}, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/" || p.tok.text == "%") {
		op := p.tok.text
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return number{}, err
		}
		if left, err = apply(op, left, right); err != nil {
			return number{}, err
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (number, error) {
	if p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		p.next()
		n, err := p.parseUnary()
		if err != nil {
			return number{}, err
		}
		if op == "+" {
			return n, nil
		}
		return negate(n)
	}
	return p.parsePower()
}

func (p *parser) parsePower() (number, error) {
	base, err := p.parseAtom()
	if err != nil {
		return number{}, err
	}
	if p.tok.kind == tokOp && p.tok.text == "**" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return number{}, err
		}
		return pow(base, exp)
	}
	return base, nil
}

func (p *parser) parseAtom() (number, error) {
	switch p.tok.kind {
	case tokNum:
		n := p.tok.num
		p.next()
		return n, nil
	case tokLParen:
		p.next()
		n, err := p.parseExpr()
		if err != nil {
			return number{}, err
		}
		if p.tok.kind != tokRParen {
			return number{}, fmt.Errorf("%w: expected ')' at %d", errSyntax, p.tok.pos)
		}
		p.next()
		return n, nil
	case tokEOF:
		return number{}, fmt.Errorf("%w: unexpected end of input", errSyntax)
	default:
		return number{}, fmt.Errorf("%w: unexpected %q at %d", errSyntax, p.tok.text, p.tok.pos)
	}
}

// --- Arithmetic ---

func negate(n number) (number, error) {
	if n.isFloat {
		return floatNum(-n.f), nil
	}
	return intNum(new(big.Int).Neg(n.i)), nil
}

func apply(op string, a, b number) (number, error) {
	if op == "/" {
		if b.isZero() {
			return number{}, errZeroDiv
		}
		return floatOp(op, a, b)
	}
	if a.isFloat || b.isFloat {
		return floatOp(op, a, b)
	}
	x, y := a.i, b.i
	switch op {
	case "+":
		return bounded(new(big.Int).Add(x, y))
	case "-":
		return bounded(new(big.Int).Sub(x, y))
	case "*":
		if x.BitLen()+y.BitLen() > MaxIntBits+1 {
			return number{}, errOverflow
		}
		return bounded(new(big.Int).Mul(x, y))
	case "%":
		if y.Sign() == 0 {
			return number{}, errZeroDiv
		}
		// Floored modulo: the result takes the sign of the divisor.
		r := new(big.Int).Rem(x, y)
		if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
			r.Add(r, y)
		}
		return intNum(r), nil
	}
	return number{}, fmt.Errorf("%w: operator %q", errSyntax, op)
}

func floatOp(op string, a, b number) (number, error) {
	x, err := a.float()
	if err != nil {
		return number{}, err
	}
	y, err := b.float()
	if err != nil {
		return number{}, err
	}
	switch op {
	case "+":
		return checked(x + y)
	case "-":
		return checked(x - y)
	case "*":
		return checked(x * y)
	case "/":
		if y == 0 {
			return number{}, errZeroDiv
		}
		return checked(x / y)
	case "%":
		if y == 0 {
			return number{}, errZeroDiv
		}
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return checked(r)
	}
	return number{}, fmt.Errorf("%w: operator %q", errSyntax, op)
}

func pow(base, exp number) (number, error) {
	if !base.isFloat && !exp.isFloat && exp.i.Sign() >= 0 {
		return intPow(base.i, exp.i)
	}
	x, err := base.float()
	if err != nil {
		return number{}, err
	}
	y, err := exp.float()
	if err != nil {
		return number{}, err
	}
	if x == 0 && y < 0 {
		return number{}, errZeroDiv
	}
	if x < 0 && y != math.Trunc(y) {
		return number{}, errDomain
	}
	return checked(math.Pow(x, y))
}

// intPow computes base**exp for exp >= 0, refusing results above MaxIntBits
// before doing the work.
func intPow(base, exp *big.Int) (number, error) {
	switch {
	case exp.Sign() == 0:
		return intNum(big.NewInt(1)), nil
	case base.Sign() == 0:
		return intNum(new(big.Int)), nil
	case base.CmpAbs(big.NewInt(1)) == 0:
		if base.Sign() < 0 && exp.Bit(0) == 1 {
			return intNum(big.NewInt(-1)), nil
		}
		return intNum(big.NewInt(1)), nil
	}
	// |base| >= 2 here, so the result has at least exp+1 bits.
	if !exp.IsInt64() || exp.Int64() > MaxIntBits || int64(base.BitLen()-1)*exp.Int64() > MaxIntBits {
		return number{}, errOverflow
	}
	return bounded(new(big.Int).Exp(base, exp, nil))
}

func bounded(i *big.Int) (number, error) {
	if i.BitLen() > MaxIntBits {
		return number{}, errOverflow
	}
	return intNum(i), nil
}

func checked(f float64) (number, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return number{}, errOverflow
	}
	return floatNum(f), nil
}
