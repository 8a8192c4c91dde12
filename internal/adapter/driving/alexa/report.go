package alexa

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/core/domain"
)

type batteryValue struct {
	Health          domain.BatteryHealth `json:"health"`
	LevelPercentage int                  `json:"levelPercentage"`
}

// reportState answers with connectivity and battery properties. A failed
// lookup yields a StateReport without context.
func (h *SmartHome) reportState(ctx context.Context, d *Directive) *Response {
	token, errResp := h.endpointToken(ctx, d)
	if errResp != nil {
		return errResp
	}

	r := d.reply("Alexa", "StateReport", nil)
	state, err := h.cameras.State(ctx, token, d.endpointID())
	if err != nil {
		logFailure(ctx, err, "ReportState")
		return r
	}

	r.AddContextProperty(PropertyOptions{
		Namespace: "Alexa.EndpointHealth",
		Name:      "connectivity",
		Value:     valueOf{Value: string(state.Connectivity)},
	})
	r.AddContextProperty(PropertyOptions{
		Namespace: "Alexa.EndpointHealth",
		Name:      "battery",
		Value: batteryValue{
			Health:          state.Health(),
			LevelPercentage: state.BatteryLevel,
		},
	})
	return r
}
