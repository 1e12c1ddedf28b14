package minilang

import (
	"fmt"

	"git.home.luguber.info/inful/docweave/internal/lang"
)

// answerName is the implicit previous-result binding maintained across
// session doctest chunks.
const answerName = "ans"

type evalContext struct {
	rt     *Runtime
	module string
	env    map[string]lang.Value
}

func (c *evalContext) Eval(st lang.Statement) (lang.Value, error) {
	n, ok := st.Expr.(node)
	if !ok {
		parsed, err := parse(st.Source)
		if err != nil {
			return nil, err
		}
		n = parsed
	}
	return c.eval(n)
}

func (c *evalContext) BindResult(v lang.Value) {
	c.env[answerName] = v
}

func (c *evalContext) eval(n node) (lang.Value, error) {
	switch t := n.(type) {
	case intNode:
		return t.val, nil
	case strNode:
		return t.val, nil
	case identNode:
		v, ok := c.env[t.name]
		if !ok {
			return nil, &lang.Failure{Kind: "UndefinedName", Message: t.name}
		}
		return v, nil
	case listNode:
		elems := make([]lang.Value, 0, len(t.elems))
		for _, el := range t.elems {
			v, err := c.eval(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return elems, nil
	case assignNode:
		v, err := c.eval(t.value)
		if err != nil {
			return nil, err
		}
		c.env[t.name] = v
		return v, nil
	case negNode:
		v, err := c.eval(t.operand)
		if err != nil {
			return nil, err
		}
		i, ok := v.(int64)
		if !ok {
			return nil, &lang.Failure{Kind: "TypeError", Message: "unary '-' needs an integer"}
		}
		return -i, nil
	case binopNode:
		return c.evalBinop(t)
	case callNode:
		return c.evalCall(t)
	default:
		return nil, fmt.Errorf("unhandled node %T", n)
	}
}

func (c *evalContext) evalBinop(b binopNode) (lang.Value, error) {
	lv, err := c.eval(b.lhs)
	if err != nil {
		return nil, err
	}
	rv, err := c.eval(b.rhs)
	if err != nil {
		return nil, err
	}
	switch l := lv.(type) {
	case int64:
		r, ok := rv.(int64)
		if !ok {
			return nil, &lang.Failure{Kind: "TypeError", Message: fmt.Sprintf("'%s' mixes integer and %T", b.op, rv)}
		}
		switch b.op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		}
	case string:
		r, ok := rv.(string)
		if ok && b.op == "+" {
			return l + r, nil
		}
		return nil, &lang.Failure{Kind: "TypeError", Message: fmt.Sprintf("'%s' not defined for strings", b.op)}
	}
	return nil, &lang.Failure{Kind: "TypeError", Message: fmt.Sprintf("'%s' not defined for %T", b.op, lv)}
}

func (c *evalContext) evalCall(call callNode) (lang.Value, error) {
	args := make([]lang.Value, 0, len(call.args))
	for _, a := range call.args {
		v, err := c.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	switch call.name {
	case "fail":
		// fail("Kind") or fail("Kind", "message"): signal a failure of the
		// given kind, the way documented examples demonstrate error paths.
		kind := "Failure"
		msg := ""
		if len(args) > 0 {
			if s, ok := args[0].(string); ok {
				kind = s
			}
		}
		if len(args) > 1 {
			if s, ok := args[1].(string); ok {
				msg = s
			}
		}
		return nil, &lang.Failure{Kind: kind, Message: msg}
	case "len":
		if len(args) != 1 {
			return nil, &lang.Failure{Kind: "ArityError", Message: "len takes one argument"}
		}
		switch v := args[0].(type) {
		case string:
			return int64(len(v)), nil
		case []lang.Value:
			return int64(len(v)), nil
		}
		return nil, &lang.Failure{Kind: "TypeError", Message: "len needs a string or list"}
	default:
		return nil, &lang.Failure{Kind: "UndefinedName", Message: call.name}
	}
}
