package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

// ErrRelayFailure marks any error caused by the outbound mail relay.
var ErrRelayFailure = errors.New("mail relay failure")

// Mailbox is a display name plus address.
type Mailbox struct {
	Name    string
	Address string
}

// OutboundMessage is a composed email ready for the relay.
type OutboundMessage struct {
	From     Mailbox
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Relay delivers one message. Implementations must honour ctx cancellation
// where the transport allows it.
type Relay interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// FailedDeliveryRepository persists submissions the relay rejected.
type FailedDeliveryRepository interface {
	Record(ctx context.Context, delivery *domain.FailedDelivery) error
	Find(ctx context.Context, filter DeliveryFilter, paging Paging) ([]domain.FailedDelivery, error)
	FindByID(ctx context.Context, id string) (*domain.FailedDelivery, error)
	UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus, at time.Time) (*domain.FailedDelivery, error)
}

// DeliveryFilter expresses admin search criteria.
type DeliveryFilter struct {
	Status domain.DeliveryStatus
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Normalize clamps the limit to the admin page size bounds and the page to 1 or more.
func (p Paging) Normalize() Paging {
	if p.Limit <= 0 || p.Limit > maxDeliveryPageSize {
		p.Limit = 50
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// SubmitContactCommand carries a validated submission plus request metadata.
type SubmitContactCommand struct {
	Submission domain.Submission
	RemoteIP   string
	UserAgent  string
}

// ContactService sends contact submissions to the business inbox.
type ContactService interface {
	Submit(ctx context.Context, cmd SubmitContactCommand) error
}

// ContactServiceConfig wires ContactService dependencies. Failures may be nil.
type ContactServiceConfig struct {
	Logger   *log.Logger
	Relay    Relay
	Failures FailedDeliveryRepository
	From     Mailbox
	To       string
	// RecordTimeout bounds persisting a failure; defaults to 5s.
	RecordTimeout time.Duration
}

func NewContactService(cfg ContactServiceConfig) ContactService {
	timeout := cfg.RecordTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &contactService{
		logger:        cfg.Logger,
		relay:         cfg.Relay,
		failures:      cfg.Failures,
		from:          cfg.From,
		to:            strings.TrimSpace(cfg.To),
		recordTimeout: timeout,
	}
}

type contactService struct {
	logger        *log.Logger
	relay         Relay
	failures      FailedDeliveryRepository
	from          Mailbox
	to            string
	recordTimeout time.Duration
}

func (s *contactService) Submit(ctx context.Context, cmd SubmitContactCommand) error {
	msg, err := ComposeMessage(cmd.Submission, s.from, s.to)
	if err != nil {
		return fmt.Errorf("compose contact message: %w", err)
	}

	if err := s.relay.Send(ctx, msg); err != nil {
		s.recordFailure(ctx, cmd, err)
		return fmt.Errorf("%w: %v", ErrRelayFailure, err)
	}
	return nil
}

// recordFailure keeps the submission for operators. It runs detached from
// the request's cancellation so a disconnecting client still leaves a trace.
func (s *contactService) recordFailure(ctx context.Context, cmd SubmitContactCommand, sendErr error) {
	if s.failures == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	defer cancel()

	delivery := &domain.FailedDelivery{
		Submission: cmd.Submission,
		RemoteIP:   cmd.RemoteIP,
		UserAgent:  cmd.UserAgent,
		Error:      sendErr.Error(),
		Status:     domain.DeliveryPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.failures.Record(recordCtx, delivery); err != nil && s.logger != nil {
		s.logger.Printf("失敗した送信の記録に失敗: %v", err)
	}
}
