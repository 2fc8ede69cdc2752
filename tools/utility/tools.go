// Package utility provides general-purpose conversion, clock and text tools.
package utility

import (
	"math"

	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

// GetAllTools returns every tool in the utility unit.
func GetAllTools() []types.Tool {
	return []types.Tool{
		NewUnitConverterTool(),
		NewTimeTool(),
		NewTextAnalyzerTool(),
	}
}

// Register adds the utility tools.
func Register(r types.Registrar) error {
	for _, tool := range GetAllTools() {
		if err := r.RegisterTool(tool); err != nil {
			return err
		}
	}
	return nil
}

func round(v float64, places int) float64 {
	scale := 1.0
	for range places {
		scale *= 10
	}
	return math.Round(v*scale) / scale
}
