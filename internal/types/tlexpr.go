package types

import (
	"fmt"
	"strings"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
)

// TLExpr is the small purely functional type-level expression language
// used inside dependent types and refinements (§3.1).
type TLExpr interface {
	String() string
	tlTag() string
}

// BinOp enumerates the arithmetic/compare/logic binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinOp) String() string {
	return [...]string{"+", "-", "*", "/", "=", "!=", "<", "<=", ">", ">=", "&&", "||"}[op]
}

type TLVar struct{ Name string }

func (TLVar) tlTag() string    { return "var" }
func (v TLVar) String() string { return v.Name }

type TLLitInt struct{ Value int64 }

func (TLLitInt) tlTag() string    { return "lit-int" }
func (l TLLitInt) String() string { return fmt.Sprintf("%d", l.Value) }

type TLLitBool struct{ Value bool }

func (TLLitBool) tlTag() string    { return "lit-bool" }
func (l TLLitBool) String() string { return fmt.Sprintf("%t", l.Value) }

type TLLitString struct{ Value string }

func (TLLitString) tlTag() string    { return "lit-string" }
func (l TLLitString) String() string { return fmt.Sprintf("%q", l.Value) }

type TLLitType struct{ Type Handle }

func (TLLitType) tlTag() string    { return "lit-type" }
func (l TLLitType) String() string { return l.Type.String() }

type TLLitList struct{ Elements []TLExpr }

func (TLLitList) tlTag() string { return "lit-list" }
func (l TLLitList) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type TLBinOp struct {
	Op          BinOp
	Left, Right TLExpr
}

func (TLBinOp) tlTag() string { return "binop" }
func (b TLBinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}

type TLCond struct{ Cond, Then, Else TLExpr }

func (TLCond) tlTag() string { return "cond" }
func (c TLCond) String() string {
	return fmt.Sprintf("if %s then %s else %s", c.Cond.String(), c.Then.String(), c.Else.String())
}

type TLLet struct {
	Name  string
	Value TLExpr
	Body  TLExpr
}

func (TLLet) tlTag() string { return "let" }
func (l TLLet) String() string {
	return fmt.Sprintf("let %s = %s in %s", l.Name, l.Value.String(), l.Body.String())
}

type TLLambda struct {
	Param     string
	ParamKind kinds.Kind
	Body      TLExpr
}

func (TLLambda) tlTag() string { return "lambda" }
func (l TLLambda) String() string {
	return fmt.Sprintf("\\%s:%s. %s", l.Param, l.ParamKind.String(), l.Body.String())
}

type TLApp struct{ Fn, Arg TLExpr }

func (TLApp) tlTag() string { return "app" }
func (a TLApp) String() string {
	return fmt.Sprintf("(%s %s)", a.Fn.String(), a.Arg.String())
}

// TLValue is the result of evaluating a TLExpr to weak head normal
// form: a literal, a closure, or a neutral term.
type TLValue interface {
	String() string
	tlValueTag() string
}

type TLVInt struct{ Value int64 }

func (TLVInt) tlValueTag() string { return "v-int" }
func (v TLVInt) String() string   { return fmt.Sprintf("%d", v.Value) }

type TLVBool struct{ Value bool }

func (TLVBool) tlValueTag() string { return "v-bool" }
func (v TLVBool) String() string   { return fmt.Sprintf("%t", v.Value) }

type TLVString struct{ Value string }

func (TLVString) tlValueTag() string { return "v-string" }
func (v TLVString) String() string   { return v.Value }

type TLVType struct{ Type Handle }

func (TLVType) tlValueTag() string { return "v-type" }
func (v TLVType) String() string   { return v.Type.String() }

type TLVList struct{ Elements []TLValue }

func (TLVList) tlValueTag() string { return "v-list" }
func (v TLVList) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TLVClosure is a lambda paired with its capturing environment.
type TLVClosure struct {
	Param string
	Body  TLExpr
	Env   TLEnv
}

func (TLVClosure) tlValueTag() string { return "v-closure" }
func (c TLVClosure) String() string   { return fmt.Sprintf("<closure %s>", c.Param) }

// TLVNeutral is a stuck term: a free variable or an application whose
// head cannot reduce further.
type TLVNeutral struct {
	Head string
	Args []TLValue
}

func (TLVNeutral) tlValueTag() string { return "v-neutral" }
func (n TLVNeutral) String() string {
	if len(n.Args) == 0 {
		return n.Head
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Head, strings.Join(parts, " "))
}

// TLEnv is an evaluation environment mapping type-level variable names
// to values.
type TLEnv map[string]TLValue

func (e TLEnv) extend(name string, v TLValue) TLEnv {
	next := make(TLEnv, len(e)+1)
	for k, val := range e {
		next[k] = val
	}
	next[name] = v
	return next
}

// DefaultRecursionBound guards type-level evaluation against infinite
// recursion; exceeding it yields TypeLevelEvaluationDiverged (§8
// Boundary behaviors).
const DefaultRecursionBound = 10000

// Eval evaluates e under env to weak head normal form, naming the
// offending expression in TypeLevelEvaluationDiverged if the recursion
// bound is exceeded.
func Eval(e TLExpr, env TLEnv) (TLValue, error) {
	return evalBounded(e, env, DefaultRecursionBound)
}

func evalBounded(e TLExpr, env TLEnv, fuel int) (TLValue, error) {
	if fuel <= 0 {
		return nil, diag.Wrap(diag.New(diag.CS009, diag.Fatal, "constraint-solver",
			fmt.Sprintf("type-level evaluation diverged on %s", e.String())).
			WithData("expression", e.String()))
	}
	switch e := e.(type) {
	case TLVar:
		if v, ok := env[e.Name]; ok {
			return v, nil
		}
		return TLVNeutral{Head: e.Name}, nil
	case TLLitInt:
		return TLVInt{Value: e.Value}, nil
	case TLLitBool:
		return TLVBool{Value: e.Value}, nil
	case TLLitString:
		return TLVString{Value: e.Value}, nil
	case TLLitType:
		return TLVType{Type: e.Type}, nil
	case TLLitList:
		vals := make([]TLValue, len(e.Elements))
		for i, el := range e.Elements {
			v, err := evalBounded(el, env, fuel-1)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return TLVList{Elements: vals}, nil
	case TLBinOp:
		return evalBinOp(e, env, fuel)
	case TLCond:
		cv, err := evalBounded(e.Cond, env, fuel-1)
		if err != nil {
			return nil, err
		}
		b, ok := cv.(TLVBool)
		if !ok {
			return TLVNeutral{Head: "if", Args: []TLValue{cv}}, nil
		}
		if b.Value {
			return evalBounded(e.Then, env, fuel-1)
		}
		return evalBounded(e.Else, env, fuel-1)
	case TLLet:
		v, err := evalBounded(e.Value, env, fuel-1)
		if err != nil {
			return nil, err
		}
		return evalBounded(e.Body, env.extend(e.Name, v), fuel-1)
	case TLLambda:
		return TLVClosure{Param: e.Param, Body: e.Body, Env: env}, nil
	case TLApp:
		fn, err := evalBounded(e.Fn, env, fuel-1)
		if err != nil {
			return nil, err
		}
		arg, err := evalBounded(e.Arg, env, fuel-1)
		if err != nil {
			return nil, err
		}
		if clo, ok := fn.(TLVClosure); ok {
			return evalBounded(clo.Body, clo.Env.extend(clo.Param, arg), fuel-1)
		}
		if n, ok := fn.(TLVNeutral); ok {
			return TLVNeutral{Head: n.Head, Args: append(append([]TLValue{}, n.Args...), arg)}, nil
		}
		return nil, diag.Wrap(diag.New(diag.CS009, diag.Error, "constraint-solver",
			fmt.Sprintf("cannot apply non-function value %s", fn.String())))
	default:
		return nil, diag.Wrap(diag.New(diag.CS009, diag.Error, "constraint-solver",
			fmt.Sprintf("unrecognized type-level expression %T", e)))
	}
}

func evalBinOp(b TLBinOp, env TLEnv, fuel int) (TLValue, error) {
	lv, err := evalBounded(b.Left, env, fuel-1)
	if err != nil {
		return nil, err
	}
	rv, err := evalBounded(b.Right, env, fuel-1)
	if err != nil {
		return nil, err
	}
	li, lok := lv.(TLVInt)
	ri, rok := rv.(TLVInt)
	if lok && rok {
		switch b.Op {
		case OpAdd:
			return TLVInt{Value: li.Value + ri.Value}, nil
		case OpSub:
			return TLVInt{Value: li.Value - ri.Value}, nil
		case OpMul:
			return TLVInt{Value: li.Value * ri.Value}, nil
		case OpDiv:
			if ri.Value == 0 {
				return nil, diag.Wrap(diag.New(diag.CS009, diag.Error, "constraint-solver",
					"division by zero in type-level expression"))
			}
			return TLVInt{Value: li.Value / ri.Value}, nil
		case OpEq:
			return TLVBool{Value: li.Value == ri.Value}, nil
		case OpNeq:
			return TLVBool{Value: li.Value != ri.Value}, nil
		case OpLt:
			return TLVBool{Value: li.Value < ri.Value}, nil
		case OpLe:
			return TLVBool{Value: li.Value <= ri.Value}, nil
		case OpGt:
			return TLVBool{Value: li.Value > ri.Value}, nil
		case OpGe:
			return TLVBool{Value: li.Value >= ri.Value}, nil
		}
	}
	lb, lbok := lv.(TLVBool)
	rb, rbok := rv.(TLVBool)
	if lbok && rbok {
		switch b.Op {
		case OpAnd:
			return TLVBool{Value: lb.Value && rb.Value}, nil
		case OpOr:
			return TLVBool{Value: lb.Value || rb.Value}, nil
		case OpEq:
			return TLVBool{Value: lb.Value == rb.Value}, nil
		case OpNeq:
			return TLVBool{Value: lb.Value != rb.Value}, nil
		}
	}
	return TLVNeutral{Head: "binop:" + b.Op.String(), Args: []TLValue{lv, rv}}, nil
}
