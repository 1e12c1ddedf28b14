package minilang

import "fmt"

// AST node variants. The language is deliberately small: integers, strings,
// lists, identifiers (optionally module-qualified), assignment, additive and
// multiplicative arithmetic, and calls.
type node interface{}

type identNode struct{ name string } // possibly "Module.name"
type intNode struct{ val int64 }
type strNode struct{ val string }
type listNode struct{ elems []node }
type assignNode struct {
	name  string
	value node
}
type binopNode struct {
	op       string
	lhs, rhs node
}
type negNode struct{ operand node }
type callNode struct {
	name string
	args []node
}

type parser struct {
	toks []token
	pos  int
}

// parse parses a single statement. A trailing ';' (the output-suppressing
// terminator) is consumed and ignored.
func parse(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ == tkSemi {
		p.next()
	}
	if p.peek().typ != tkEOF {
		return nil, fmt.Errorf("unexpected trailing token %q", p.peek().text)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (node, error) {
	// Assignment: IDENT '=' expr. One token of lookahead is enough because
	// assignment targets are bare identifiers.
	if p.peek().typ == tkIdent && p.toks[p.pos+1].typ == tkAssign {
		name := p.next().text
		p.next() // '='
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return assignNode{name: name, value: value}, nil
	}
	return p.parseAdditive()
}

func (p *parser) parseAdditive() (node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tkPlus || p.peek().typ == tkMinus {
		op := p.next().text
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = binopNode{op: op, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseMultiplicative() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tkStar {
		op := p.next().text
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = binopNode{op: op, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().typ == tkMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	switch t := p.next(); t.typ {
	case tkInt:
		return intNode{val: t.num}, nil
	case tkString:
		return strNode{val: t.text}, nil
	case tkIdent:
		name := t.text
		// Module-qualified identifier: Module.name
		for p.peek().typ == tkDot {
			p.next()
			part := p.next()
			if part.typ != tkIdent {
				return nil, fmt.Errorf("expected identifier after '.'")
			}
			name += "." + part.text
		}
		if p.peek().typ == tkLParen {
			p.next()
			var args []node
			for p.peek().typ != tkRParen {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.peek().typ == tkComma {
					p.next()
				}
			}
			p.next() // ')'
			return callNode{name: name, args: args}, nil
		}
		return identNode{name: name}, nil
	case tkLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.next().typ != tkRParen {
			return nil, fmt.Errorf("expected ')'")
		}
		return inner, nil
	case tkLBracket:
		var elems []node
		for p.peek().typ != tkRBracket {
			el, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if p.peek().typ == tkComma {
				p.next()
			}
		}
		p.next() // ']'
		return listNode{elems: elems}, nil
	default:
		return nil, fmt.Errorf("unexpected token %q", t.text)
	}
}
