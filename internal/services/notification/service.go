// Package notification implements the outbound delivery port. The
// engine only hands messages over; dispatch happens on a background
// worker so delivery can never block or fail a transfer.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"payva/internal/models"

	"github.com/sirupsen/logrus"
)

// Message is one outbound notification.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Sender performs the actual delivery of a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log. It stands in for a real mail
// transport, whose formatting and delivery are outside this system.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"recipient": msg.Recipient,
		"subject":   msg.Subject,
	}).Info("notification delivered")
	return nil
}

// Service queues messages and dispatches them asynchronously.
type Service struct {
	sender  Sender
	queue   chan Message
	wg      sync.WaitGroup
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewService creates a notification service with a running dispatch
// worker. Close drains the queue and stops it.
func NewService(sender Sender, buffer int) *Service {
	if sender == nil {
		sender = LogSender{}
	}
	if buffer <= 0 {
		buffer = 64
	}
	s := &Service{
		sender:  sender,
		queue:   make(chan Message, buffer),
		timeout: 10 * time.Second,
	}
	s.wg.Add(1)
	go s.dispatch()
	return s
}

func (s *Service) dispatch() {
	defer s.wg.Done()
	for msg := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.sender.Send(ctx, msg); err != nil {
			logrus.WithError(err).WithField("recipient", msg.Recipient).
				Warn("notification delivery failed")
		}
		cancel()
	}
}

// Enqueue hands a message to the worker without blocking; when the
// queue is full or already closed the message is dropped and logged.
func (s *Service) Enqueue(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		logrus.WithField("recipient", msg.Recipient).
			Warn("notification service closed, message dropped")
		return
	}
	select {
	case s.queue <- msg:
	default:
		logrus.WithField("recipient", msg.Recipient).
			Warn("notification queue full, message dropped")
	}
}

// DeliverVerification sends a transfer verification token to the
// sender's registered contact address.
func (s *Service) DeliverVerification(token *models.VerificationToken, tx *models.Transaction, recipient string) {
	s.Enqueue(Message{
		Recipient: recipient,
		Subject:   "Large transfer verification",
		Body: fmt.Sprintf("A transfer of %s %s requires verification. Token: %s",
			tx.Amount.StringFixed(2), tx.Currency, token.Token),
	})
}

// DeliverInvitation invites someone to register.
func (s *Service) DeliverInvitation(inviting *models.User, recipient string) {
	s.Enqueue(Message{
		Recipient: recipient,
		Subject:   "You have been invited",
		Body: fmt.Sprintf("%s %s invited you to open a wallet.",
			inviting.FirstName, inviting.LastName),
	})
}

// Close stops accepting messages and waits for in-flight deliveries.
func (s *Service) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
