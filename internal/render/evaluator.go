package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Evaluator is the default Renderer implementation.
type Evaluator struct {
	clock  func() time.Time
	lookup func(name string) (float64, bool)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock overrides the moment returned by now(). Used in tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Evaluator) { e.clock = clock }
}

// WithLookup resolves bare identifiers in templates to numeric values.
// An identifier without a value renders as a not-ready error.
func WithLookup(lookup func(name string) (float64, bool)) Option {
	return func(e *Evaluator) { e.lookup = lookup }
}

// NewEvaluator returns an Evaluator backed by the real clock unless
// configured otherwise.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ Renderer = (*Evaluator)(nil)

// Render evaluates template and returns its numeric result.
func (e *Evaluator) Render(template string) (float64, error) {
	p := &parser{src: template, eval: e}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("unexpected %q at offset %d", p.rest(), p.pos)
	}
	if v.isMoment {
		return 0, fmt.Errorf("%w: template yields a moment, wrap it in as_timestamp()", ErrNotNumeric)
	}
	return v.num, nil
}

// value is either a number or a moment, depending on isMoment.
type value struct {
	num      float64
	moment   time.Time
	isMoment bool
}

type parser struct {
	src  string
	pos  int
	eval *Evaluator
}

func (p *parser) rest() string {
	r := p.src[p.pos:]
	if len(r) > 12 {
		r = r[:12]
	}
	return r
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

// accept consumes c if it is the next non-space byte.
func (p *parser) accept(c byte) bool {
	p.skipSpace()
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	if !p.accept(c) {
		return fmt.Errorf("expected %q at offset %d, got %q", string(c), p.pos, p.rest())
	}
	return nil
}

func (p *parser) parseExpr() (value, error) {
	left, err := p.parseTerm()
	if err != nil {
		return value{}, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return value{}, err
		}
		if left, err = apply(op, left, right); err != nil {
			return value{}, err
		}
	}
}

func (p *parser) parseTerm() (value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return value{}, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return value{}, err
		}
		if left, err = apply(op, left, right); err != nil {
			return value{}, err
		}
	}
}

func (p *parser) parseUnary() (value, error) {
	if p.accept('-') {
		v, err := p.parseUnary()
		if err != nil {
			return value{}, err
		}
		if v.isMoment {
			return value{}, fmt.Errorf("cannot negate a moment at offset %d", p.pos)
		}
		v.num = -v.num
		return v, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (value, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return value{}, err
		}
		if err := p.expect(')'); err != nil {
			return value{}, err
		}
		return v, nil
	case c >= '0' && c <= '9', c == '.':
		return p.parseNumber()
	case isIdentByte(c):
		return p.parseIdent()
	default:
		return value{}, fmt.Errorf("unexpected %q at offset %d", p.rest(), p.pos)
	}
}

func (p *parser) parseNumber() (value, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	n, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return value{}, fmt.Errorf("bad number %q at offset %d", p.src[start:p.pos], start)
	}
	return value{num: n}, nil
}

func (p *parser) parseIdent() (value, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]

	switch name {
	case "now":
		if err := p.expect('('); err != nil {
			return value{}, err
		}
		if err := p.expect(')'); err != nil {
			return value{}, err
		}
		return p.parseReplaceChain(p.eval.clock())
	case "as_timestamp":
		if err := p.expect('('); err != nil {
			return value{}, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return value{}, err
		}
		if err := p.expect(')'); err != nil {
			return value{}, err
		}
		if v.isMoment {
			return value{num: float64(v.moment.Unix())}, nil
		}
		// already a number, e.g. a re-expanded template
		return v, nil
	default:
		if p.eval.lookup != nil {
			if n, ok := p.eval.lookup(name); ok {
				return value{num: n}, nil
			}
		}
		return value{}, fmt.Errorf("%w: %q has no value", ErrValueNotReady, name)
	}
}

// parseReplaceChain applies zero or more .replace(field=n) calls to t.
func (p *parser) parseReplaceChain(t time.Time) (value, error) {
	for {
		save := p.pos
		if !p.accept('.') {
			return value{moment: t, isMoment: true}, nil
		}
		if !strings.HasPrefix(p.src[p.pos:], "replace") {
			p.pos = save
			return value{moment: t, isMoment: true}, nil
		}
		p.pos += len("replace")
		if err := p.expect('('); err != nil {
			return value{}, err
		}
		p.skipSpace()
		fieldStart := p.pos
		for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
			p.pos++
		}
		field := p.src[fieldStart:p.pos]
		if err := p.expect('='); err != nil {
			return value{}, err
		}
		numStart := p.pos
		p.skipSpace()
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(strings.TrimSpace(p.src[numStart:p.pos]))
		if err != nil {
			return value{}, fmt.Errorf("bad replace argument at offset %d", numStart)
		}
		if err := p.expect(')'); err != nil {
			return value{}, err
		}
		if t, err = replaceField(t, field, n); err != nil {
			return value{}, err
		}
	}
}

// replaceField returns t with one calendar field overridden, keeping the
// original location.
func replaceField(t time.Time, field string, n int) (time.Time, error) {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	switch field {
	case "year":
		y = n
	case "month":
		mo = time.Month(n)
	case "day":
		d = n
	case "hour":
		h = n
	case "minute":
		mi = n
	case "second":
		s = n
	default:
		return time.Time{}, fmt.Errorf("unknown replace field %q", field)
	}
	return time.Date(y, mo, d, h, mi, s, 0, t.Location()), nil
}

func apply(op byte, left, right value) (value, error) {
	if left.isMoment || right.isMoment {
		return value{}, fmt.Errorf("arithmetic on a moment, wrap it in as_timestamp()")
	}
	switch op {
	case '+':
		return value{num: left.num + right.num}, nil
	case '-':
		return value{num: left.num - right.num}, nil
	case '*':
		return value{num: left.num * right.num}, nil
	default:
		if right.num == 0 {
			return value{}, fmt.Errorf("division by zero")
		}
		return value{num: left.num / right.num}, nil
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
