package tools

import (
	"github.com/slighter12/mcp-toolserver-go/tools/calculator"
	"github.com/slighter12/mcp-toolserver-go/tools/types"
	"github.com/slighter12/mcp-toolserver-go/tools/utility"
	"github.com/slighter12/mcp-toolserver-go/tools/weather"
)

// Unit is a compiled-in tool-providing unit. A discovery manifest enables a
// unit by naming it.
type Unit struct {
	Name     string
	Register func(r types.Registrar) error
}

// Units returns the catalog of every unit built into the server.
func Units() []Unit {
	return []Unit{
		{Name: "calculator", Register: calculator.Register},
		{Name: "weather", Register: weather.Register},
		{Name: "utility", Register: utility.Register},
	}
}

// LookupUnit finds a catalog unit by name.
func LookupUnit(name string) (Unit, bool) {
	for _, unit := range Units() {
		if unit.Name == name {
			return unit, true
		}
	}
	return Unit{}, false
}
