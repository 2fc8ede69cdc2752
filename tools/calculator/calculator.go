// Package calculator provides the expression calculator tool.
package calculator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

const doc = `Evaluate a mathematical expression.

Accepts plain arithmetic such as "2*3+5" and simple questions such as "1加1等于几" or "what is 7 times 6".

Params:
    expression: the expression to evaluate, for example "1+1", "sqrt(9)" or "2^3"

Returns:
    the result as a string, or a calculation error message

Supported operators:
    + - * / % ** ^ and the functions sqrt, sin, cos, tan, log, log10, exp, abs
`

// Params are the calculator's arguments.
type Params struct {
	Expression string `json:"expression"`
}

// Register adds the calculator tool.
func Register(r types.Registrar) error {
	return r.RegisterTool(New())
}

func New() types.Tool {
	return types.New("calculator", doc, func(_ context.Context, p Params) (any, error) {
		value, err := Evaluate(p.Expression)
		if err != nil {
			return fmt.Sprintf("calculation error: %v", err), nil
		}
		return value, nil
	})
}

var wordOperators = strings.NewReplacer(
	"等于几", "",
	"计算", "",
	"加", "+",
	"减", "-",
	"乘", "*",
	"除", "/",
	"divided by", "/",
	"plus", "+",
	"minus", "-",
	"times", "*",
	"what is", "",
	"?", "",
	"？", "",
)

var functions = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
}

// Evaluate normalises natural-language operator words and evaluates the
// remaining arithmetic expression.
func Evaluate(expression string) (string, error) {
	input := strings.TrimSpace(wordOperators.Replace(strings.ToLower(expression)))
	if input == "" {
		return "", fmt.Errorf("empty expression")
	}

	opts := []expr.Option{expr.Env(map[string]any{})}
	for name, fn := range functions {
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("%s expects one argument", name)
			}
			x, err := toFloat(params[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return fn(x), nil
		}))
	}

	program, err := expr.Compile(input, opts...)
	if err != nil {
		return "", err
	}
	out, err := expr.Run(program, map[string]any{})
	if err != nil {
		return "", err
	}
	return formatResult(out)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func formatResult(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(n), nil
	default:
		return "", fmt.Errorf("result is not a number: %v", v)
	}
}
