package inbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/notification"
	"github.com/rs/zerolog"
)

// ErrUntrustedSender is returned when the sender is outside the gateway allow-list
var ErrUntrustedSender = errors.New("untrusted sender")

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Outcomes reported to the Recorder
const (
	OutcomeAccepted       = "accepted"
	OutcomeUntrusted      = "untrusted"
	OutcomeUnknownGateway = "unknown_gateway"
	OutcomeStoreFailed    = "store_failed"
)

// Parser turns a raw body into a gateway notification. Satisfied by *gateways.Registry.
type Parser interface {
	Parse(gateway string, raw []byte) (gateways.Notification, error)
	Exists(gateway string) bool
}

// Recorder counts Receive outcomes per gateway
type Recorder interface {
	RecordReceived(ctx context.Context, gateway, outcome string)
}

// UseCase defines the business operations of the inbox
type UseCase interface {
	Receive(ctx context.Context, gateway string, raw []byte, senderIP string, opts ...notification.SenderOption) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, gateway string, limit int) ([]Record, error)
}

type Service struct {
	Repo     Repository
	Parser   Parser
	recorder Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

type nopRecorder struct{}

func (nopRecorder) RecordReceived(context.Context, string, string) {}

// NewService creates a new inbox service. A nil recorder disables outcome counting.
func NewService(repo Repository, parser Parser, recorder Recorder, logger zerolog.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		Repo:     repo,
		Parser:   parser,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Receive parses a notification, checks its sender and stores it
func (s *Service) Receive(ctx context.Context, gateway string, raw []byte, senderIP string, opts ...notification.SenderOption) (Record, error) {
	n, err := s.Parser.Parse(gateway, raw)
	if err != nil {
		s.recorder.RecordReceived(ctx, gateway, OutcomeUnknownGateway)
		return Record{}, fmt.Errorf("parsing notification: %w", err)
	}

	if !n.ValidSender(senderIP, opts...) {
		s.recorder.RecordReceived(ctx, gateway, OutcomeUntrusted)
		s.logger.Warn().
			Str("gateway", gateway).
			Str("sender_ip", senderIP).
			Msg("rejected notification from untrusted sender")
		return Record{}, fmt.Errorf("%w: %s", ErrUntrustedSender, senderIP)
	}

	amount := notification.Amount(n)
	record := Record{
		ID:            uuid.New().String(),
		Gateway:       gateway,
		TransactionID: n.TransactionID(),
		Status:        n.Status(),
		GrossCents:    amount.Cents(),
		Currency:      amount.Currency(),
		Fields:        n.Fields().Map(),
		Raw:           n.Raw(),
		SenderIP:      senderIP,
		ReceivedAt:    s.now(),
	}

	id, err := s.Repo.Store(ctx, record)
	if err != nil {
		s.recorder.RecordReceived(ctx, gateway, OutcomeStoreFailed)
		return Record{}, fmt.Errorf("storing notification: %w", err)
	}
	record.ID = id

	s.recorder.RecordReceived(ctx, gateway, OutcomeAccepted)
	s.logger.Info().
		Str("id", record.ID).
		Str("gateway", gateway).
		Str("transaction_id", record.TransactionID).
		Stringer("status", record.Status).
		Stringer("amount", amount).
		Msg("notification accepted")

	return record, nil
}

// Get returns a stored notification
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	record, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Record{}, fmt.Errorf("getting notification: %w", err)
	}
	return record, nil
}

// List returns the newest notifications of a gateway.
// A limit outside 1..MaxListLimit falls back to DefaultListLimit or MaxListLimit.
func (s *Service) List(ctx context.Context, gateway string, limit int) ([]Record, error) {
	if !s.Parser.Exists(gateway) {
		return nil, fmt.Errorf("%w: %s", gateways.ErrGatewayNotFound, gateway)
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	records, err := s.Repo.ListByGateway(ctx, gateway, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return records, nil
}
