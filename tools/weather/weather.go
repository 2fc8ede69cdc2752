// Package weather provides simulated weather lookups.
package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

const weatherDoc = `查询指定城市在某一天的天气。

支持北京、上海、纽约三个城市，其余城市返回未知城市。

参数：
    location：城市名称，例如 北京、上海、纽约
    date：查询日期，格式为 YYYY-MM-DD
        省略时使用当天日期

返回：
    一行天气描述，例如 2025-12-30 北京 晴 25°C
`

const getWeatherDoc = `Get the current weather for a city.

Args:
    city: city name, for example "北京" or "上海"

Returns:
    a mapping with temperature, condition, humidity and timestamp
`

var now = time.Now

// Params are the weather tool's arguments.
type Params struct {
	Location string  `json:"location"`
	Date     *string `json:"date"`
}

// CurrentParams are the get_weather tool's arguments.
type CurrentParams struct {
	City string `json:"city"`
}

type forecast struct {
	condition   string
	temperature string
	humidity    string
}

var daily = map[string]forecast{
	"北京": {condition: "晴", temperature: "25°C"},
	"上海": {condition: "多云", temperature: "20°C"},
	"纽约": {condition: "雨", temperature: "10°C"},
}

var current = map[string]forecast{
	"北京": {condition: "晴", temperature: "22°C", humidity: "40%"},
	"上海": {condition: "多云", temperature: "25°C", humidity: "65%"},
	"广州": {condition: "阵雨", temperature: "28°C", humidity: "80%"},
}

// Register adds the weather and get_weather tools.
func Register(r types.Registrar) error {
	if err := r.RegisterTool(NewWeather()); err != nil {
		return err
	}
	return r.RegisterTool(NewGetWeather())
}

func NewWeather() types.Tool {
	return types.New("weather", weatherDoc, func(_ context.Context, p Params) (any, error) {
		date := now().Format(time.DateOnly)
		if p.Date != nil && *p.Date != "" {
			date = *p.Date
		}
		f, ok := daily[p.Location]
		if !ok {
			return fmt.Sprintf("%s %s 未知城市", date, p.Location), nil
		}
		return fmt.Sprintf("%s %s %s %s", date, p.Location, f.condition, f.temperature), nil
	})
}

func NewGetWeather() types.Tool {
	return types.New("get_weather", getWeatherDoc, func(_ context.Context, p CurrentParams) (any, error) {
		timestamp := now().Format(time.RFC3339)
		f, ok := current[p.City]
		if !ok {
			return map[string]any{
				"city":        p.City,
				"temperature": "24°C",
				"condition":   "未知",
				"humidity":    "50%",
				"note":        "simulated data",
				"timestamp":   timestamp,
			}, nil
		}
		return map[string]any{
			"city":        p.City,
			"temperature": f.temperature,
			"condition":   f.condition,
			"humidity":    f.humidity,
			"timestamp":   timestamp,
			"source":      "weather-api",
		}, nil
	})
}
