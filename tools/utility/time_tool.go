package utility

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

const timeToolDoc = `Report the time in a timezone.

Args:
    timezone: IANA timezone name, defaults to Asia/Shanghai
    operation: "current" for the full date and time or "timestamp" for Unix seconds
`

const (
	defaultTimezone  = "Asia/Shanghai"
	operationCurrent = "current"
	operationStamp   = "timestamp"
)

var clock = time.Now

type TimeParams struct {
	Timezone  *string `json:"timezone"`
	Operation *string `json:"operation"`
}

func NewTimeTool() types.Tool {
	return types.New("time_tool", timeToolDoc, func(_ context.Context, p TimeParams) (any, error) {
		timezone := stringOr(p.Timezone, defaultTimezone)
		operation := stringOr(p.Operation, operationCurrent)

		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return map[string]any{
				"error":               fmt.Sprintf("unknown timezone: %s", timezone),
				"supported_timezones": []string{"Asia/Shanghai", "America/New_York", "Europe/London", "UTC"},
			}, nil
		}
		now := clock().In(loc)

		switch operation {
		case operationCurrent:
			return map[string]any{
				"datetime":    now.Format(time.DateTime),
				"timestamp":   now.Unix(),
				"timezone":    timezone,
				"day_of_week": now.Weekday().String(),
				"iso_format":  now.Format(time.RFC3339),
			}, nil
		case operationStamp:
			return map[string]any{
				"timestamp": now.Unix(),
				"timezone":  timezone,
			}, nil
		default:
			return map[string]any{
				"error":                fmt.Sprintf("unsupported operation: %s", operation),
				"supported_operations": []string{operationCurrent, operationStamp},
			}, nil
		}
	})
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
