package events

import (
	"encoding/json"
	"time"

	"portfolio-be/pkg/portfolio"
)

const (
	BriefingSubmittedType  = "BRIEFING_SUBMITTED"
	BriefingSubmittedTopic = "briefing.submitted"
)

// BriefingSubmitted is emitted after the upstream accepted a briefing.
type BriefingSubmitted struct {
	Briefing   portfolio.Briefing `json:"briefing"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewBriefingSubmitted(b portfolio.Briefing, at time.Time) BriefingSubmitted {
	return BriefingSubmitted{Briefing: b, OccurredAt: at}
}

func (e BriefingSubmitted) EventType() string { return BriefingSubmittedType }

func (e BriefingSubmitted) Timestamp() time.Time { return e.OccurredAt }

// Payload flattens the briefing into its json field names.
func (e BriefingSubmitted) Payload() map[string]interface{} {
	data, err := json.Marshal(e.Briefing)
	if err != nil {
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	_ = json.Unmarshal(data, &out)
	out["occurred_at"] = e.OccurredAt.UTC().Format(time.RFC3339)
	return out
}

// DecodeBriefingSubmitted parses a message published with json.Marshal(event).
func DecodeBriefingSubmitted(data []byte) (BriefingSubmitted, error) {
	var e BriefingSubmitted
	err := json.Unmarshal(data, &e)
	return e, err
}
