package utility

import (
	"context"
	"fmt"
	"strings"

	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

const unitConverterDoc = `Convert a value between physical units.

Args:
    value: the amount to convert
    from_unit: source unit, one of km, mile, kg, lb, m, ft, C, F
    to_unit: target unit, one of km, mile, kg, lb, m, ft, C, F

Returns:
    the original and converted values, or the list of supported conversions
`

type UnitConverterParams struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"from_unit"`
	ToUnit   string  `json:"to_unit"`
}

type conversion struct {
	from, to string
	factor   float64
	apply    func(float64) float64
}

var conversions = []conversion{
	{from: "km", to: "mile", factor: 0.621371},
	{from: "mile", to: "km", factor: 1.60934},
	{from: "kg", to: "lb", factor: 2.20462},
	{from: "lb", to: "kg", factor: 0.453592},
	{from: "m", to: "ft", factor: 3.28084},
	{from: "ft", to: "m", factor: 0.3048},
	{from: "c", to: "f", apply: func(c float64) float64 { return c*9/5 + 32 }},
	{from: "f", to: "c", apply: func(f float64) float64 { return (f - 32) * 5 / 9 }},
}

func NewUnitConverterTool() types.Tool {
	return types.New("unit_converter", unitConverterDoc, func(_ context.Context, p UnitConverterParams) (any, error) {
		from, to := strings.ToLower(p.FromUnit), strings.ToLower(p.ToUnit)
		for _, c := range conversions {
			if c.from != from || c.to != to {
				continue
			}
			var result float64
			var factor any
			if c.apply != nil {
				result = c.apply(p.Value)
				factor = "function"
			} else {
				result = p.Value * c.factor
				factor = c.factor
			}
			return map[string]any{
				"original":          map[string]any{"value": p.Value, "unit": p.FromUnit},
				"converted":         map[string]any{"value": round(result, 6), "unit": p.ToUnit},
				"conversion_factor": factor,
			}, nil
		}

		supported := make([]string, 0, len(conversions))
		for _, c := range conversions {
			supported = append(supported, c.from+"->"+c.to)
		}
		return map[string]any{
			"error":                 fmt.Sprintf("unsupported conversion: %s -> %s", p.FromUnit, p.ToUnit),
			"supported_conversions": supported,
		}, nil
	})
}
