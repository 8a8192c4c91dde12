package alexa

import (
	"context"
	"encoding/json"
	"fmt"
)

// Skill serves the single Alexa lambda: Smart Home directives and custom
// skill (APL) requests arrive on the same entry point.
type Skill struct {
	smartHome *SmartHome
	apl       *APL
}

func NewSkill(smartHome *SmartHome, apl *APL) *Skill {
	return &Skill{
		smartHome: smartHome,
		apl:       apl,
	}
}

type envelopeKeys struct {
	Directive json.RawMessage `json:"directive"`
	Request   json.RawMessage `json:"request"`
}

// Invoke routes a raw event by its top level key and returns the encoded reply.
func (s *Skill) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	var keys envelopeKeys
	if err := json.Unmarshal(payload, &keys); err != nil {
		return nil, fmt.Errorf("decode alexa event: %w", err)
	}

	if len(keys.Directive) == 0 && len(keys.Request) > 0 {
		var req SkillRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("decode skill request: %w", err)
		}
		return json.Marshal(s.apl.Handle(ctx, req))
	}

	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode directive: %w", err)
	}
	return json.Marshal(s.smartHome.Handle(ctx, req))
}
