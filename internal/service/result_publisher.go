package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-exam-api/internal/dto"
	"github.com/noah-isme/lingua-exam-api/internal/observability"
)

// ResultEventCreated is the type of the event emitted after a result is persisted.
const ResultEventCreated = "result.created"

// ResultPublisher announces persisted results to downstream consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, summary dto.SubmissionSummary) error
}

// ResultEvent is the wire format of result events on both transports.
type ResultEvent struct {
	Type   string                `json:"type"`
	Source string                `json:"source"`
	Result dto.SubmissionSummary `json:"result"`
	SentAt time.Time             `json:"sent_at"`
}

type brokerPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	nodeID       string
}

// NewResultPublisher publishes to a Redis channel and a NATS subject derived from
// channelBase ("lingua:results" becomes subject "lingua.results"). Either transport may be nil.
func NewResultPublisher(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) ResultPublisher {
	channel := strings.TrimSpace(channelBase)
	subject := ""
	if channel != "" {
		subject = strings.ReplaceAll(channel, ":", ".")
	}

	return &brokerPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "result_publisher").Logger(),
		nodeID:       uuid.NewString(),
	}
}

func (p *brokerPublisher) Publish(ctx context.Context, summary dto.SubmissionSummary) error {
	if p.redisChannel == "" {
		return nil
	}

	payload, err := json.Marshal(ResultEvent{
		Type:   ResultEventCreated,
		Source: p.nodeID,
		Result: summary,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode result event: %w", err)
	}

	var errs []error
	if p.redis != nil {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			observability.ResultEvents().WithLabelValues("redis", "error").Inc()
			errs = append(errs, fmt.Errorf("redis publish: %w", err))
		} else {
			observability.ResultEvents().WithLabelValues("redis", "sent").Inc()
		}
	}

	if p.nats != nil {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			observability.ResultEvents().WithLabelValues("nats", "error").Inc()
			errs = append(errs, fmt.Errorf("nats publish: %w", err))
		} else {
			observability.ResultEvents().WithLabelValues("nats", "sent").Inc()
		}
	}

	if len(errs) == 0 {
		p.logger.Debug().Str("result_id", summary.ResultID).Msg("result event published")
	}
	return errors.Join(errs...)
}
