package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"bizready/internal/domain"
)

const EventAssessmentCompleted = "assessment.completed"

// CompletedEvent is the payload announced when a plan has been stored.
type CompletedEvent struct {
	Type            string   `json:"type"`
	AssessmentID    string   `json:"assessment_id"`
	BusinessTypeID  string   `json:"business_type_id"`
	LocationID      string   `json:"location_id,omitempty"`
	AsOf            string   `json:"as_of"`
	ForceSelected   []string `json:"force_selected"`
	Selected        []string `json:"selected"`
	Recommendations []string `json:"recommendations"`
}

// Publisher implements ports.EventPublisher on a kafka-go writer.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{writer: &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}}
}

func (p *Publisher) PublishAssessmentCompleted(ctx context.Context, plan domain.Plan) error {
	msg, err := buildMessage(plan)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.writer.Close() }

// buildMessage keys the event by assessment id so retries land on one partition.
func buildMessage(plan domain.Plan) (kafkago.Message, error) {
	ev := CompletedEvent{
		Type:            EventAssessmentCompleted,
		AssessmentID:    plan.ID,
		BusinessTypeID:  plan.BusinessTypeID,
		LocationID:      plan.LocationID,
		AsOf:            plan.AsOf,
		ForceSelected:   []string{},
		Selected:        []string{},
		Recommendations: make([]string, 0, len(plan.Recommendations)),
	}
	for _, r := range plan.Risks {
		switch r.Disposition {
		case domain.DispositionForceSelected:
			ev.ForceSelected = append(ev.ForceSelected, r.HazardID)
		case domain.DispositionSelected:
			ev.Selected = append(ev.Selected, r.HazardID)
		}
	}
	for _, rec := range plan.Recommendations {
		ev.Recommendations = append(ev.Recommendations, rec.StrategyID)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:     []byte(plan.ID),
		Value:   body,
		Headers: []kafkago.Header{{Key: "event-type", Value: []byte(EventAssessmentCompleted)}},
	}, nil
}
