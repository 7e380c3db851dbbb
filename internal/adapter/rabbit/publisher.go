// Package rabbit adapts the shared RabbitMQ connection wrapper into a
// fire-and-forget publisher for simulation replay messages: one
// message per driver movement-history leg and one per served
// passenger, so an external dashboard can replay a run as it would a
// live feed.
package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/fleetsim/citysim/internal/domain/types"
	"github.com/fleetsim/citysim/internal/sim"
	"github.com/fleetsim/citysim/pkg/logger"
	wrap "github.com/fleetsim/citysim/pkg/logger/wrapper"
	"github.com/fleetsim/citysim/pkg/metrics"
	"github.com/fleetsim/citysim/pkg/rabbit"
)

const replayExchange = "citysim.replay"

// movementMessage mirrors one driver movement-history leg.
type movementMessage struct {
	ReplicationIndex int     `json:"replication_index"`
	DriverID         int     `json:"driver_id"`
	StartTime        float64 `json:"start_time"`
	EndTime          float64 `json:"end_time"`
	StartZone        int     `json:"start_zone"`
	EndZone          int     `json:"end_zone"`
	IsMoving         bool    `json:"is_moving"`
	HasPassenger     bool    `json:"has_passenger"`
}

// tripMessage mirrors one passenger result row.
type tripMessage struct {
	ReplicationIndex int     `json:"replication_index"`
	ArrivalTime      float64 `json:"arrival_time"`
	StartZone        int     `json:"start_zone"`
	EndZone          int     `json:"end_zone"`
	ServiceDuration  float64 `json:"service_duration"`
	WaitingTime      float64 `json:"waiting_time"`
}

// ReplayPublisher publishes a completed run's movement and trip
// history to a topic exchange so downstream consumers can replay it.
type ReplayPublisher struct {
	client *rabbit.RabbitMQ
	log    logger.Logger
}

func NewReplayPublisher(client *rabbit.RabbitMQ, log logger.Logger) *ReplayPublisher {
	return &ReplayPublisher{client: client, log: log}
}

// PublishResult publishes every movement and trip message belonging
// to one replication's result. Publish failures are logged and
// counted but do not abort the run: replay is a diagnostics channel,
// not a correctness dependency.
func (p *ReplayPublisher) PublishResult(ctx context.Context, result sim.Result) {
	ctx = wrap.WithAction(ctx, types.ActionPublishRabbitMQ)
	replication := fmt.Sprintf("%d", result.ReplicationIndex)

	if err := p.client.Channel.ExchangeDeclare(replayExchange, "topic", true, false, false, false, nil); err != nil {
		p.log.Error(ctx, "declaring replay exchange", err)
		return
	}

	for _, d := range result.Drivers {
		for _, m := range d.MovementHistory {
			msg := movementMessage{
				ReplicationIndex: result.ReplicationIndex,
				DriverID:         d.ID,
				StartTime:        m.StartTime,
				EndTime:          m.EndTime,
				StartZone:        m.ZoneFrom,
				EndZone:          m.ZoneTo,
				IsMoving:         m.IsMoving,
				HasPassenger:     m.HasPassenger,
			}
			key := fmt.Sprintf("movement.%d", d.ID)
			err := p.publish(ctx, key, msg)
			metrics.RecordRabbitPublish(replication, "movement", err)
			if err != nil {
				p.log.Error(ctx, "publishing movement message", err)
			}
		}
	}

	for _, passenger := range result.ServedPassengers() {
		msg := tripMessage{
			ReplicationIndex: result.ReplicationIndex,
			ArrivalTime:      passenger.ArrivalTime,
			StartZone:        passenger.StartZone,
			EndZone:          passenger.EndZone,
			ServiceDuration:  passenger.ServiceDuration,
			WaitingTime:      passenger.WaitingTime(),
		}
		key := fmt.Sprintf("trip.%d", passenger.ID)
		err := p.publish(ctx, key, msg)
		metrics.RecordRabbitPublish(replication, "trip", err)
		if err != nil {
			p.log.Error(ctx, "publishing trip message", err)
		}
	}
}

func (p *ReplayPublisher) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pub := amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	}

	return retry(3, 500*time.Millisecond, func() error {
		return p.client.Channel.PublishWithContext(ctx, replayExchange, routingKey, false, false, pub)
	})
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for i := 0; i < n; i++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
