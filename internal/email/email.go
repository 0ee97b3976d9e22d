// Package email delivers buyer notifications. Delivery is a structured log
// line; there is no outbound mail transport.
package email

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/letservice/internal/kafka"
	"github.com/Domenick1991/letservice/internal/logger"
	kafkago "github.com/segmentio/kafka-go"
)

type Notification struct {
	UserID  string
	Subject string
	Body    string
}

type Sender struct {
	logger logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{logger: log}
}

func (s *Sender) Send(ctx context.Context, n Notification) error {
	s.logger.Info("send email", logger.F("user_id", n.UserID), logger.F("subject", n.Subject))
	return nil
}

type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

// BuyerLister returns the users holding a completed purchase for a flight.
type BuyerLister interface {
	CompletedBuyers(ctx context.Context, flightID int64) ([]string, error)
}

// CancellationNotifier mails every buyer of a canceled flight.
type CancellationNotifier struct {
	buyers BuyerLister
	mailer Mailer
	logger logger.Logger
}

func NewCancellationNotifier(buyers BuyerLister, mailer Mailer, log logger.Logger) *CancellationNotifier {
	return &CancellationNotifier{buyers: buyers, mailer: mailer, logger: log}
}

// HandleMessage is a kafka.Consumer handler for the flight events topic.
func (n *CancellationNotifier) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	var event kafka.FlightEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		n.logger.Warn("skip undecodable flight event", logger.F("offset", msg.Offset), logger.F("error", err))
		return nil
	}
	if event.Type != kafka.EventFlightCanceled {
		return nil
	}
	return n.Notify(ctx, event)
}

func (n *CancellationNotifier) Notify(ctx context.Context, event kafka.FlightEvent) error {
	buyers, err := n.buyers.CompletedBuyers(ctx, event.FlightID)
	if err != nil {
		return fmt.Errorf("list buyers of flight %d: %w", event.FlightID, err)
	}

	sent := 0
	for _, userID := range buyers {
		err := n.mailer.Send(ctx, Notification{
			UserID:  userID,
			Subject: fmt.Sprintf("Flight %s has been canceled", event.FlightName),
			Body:    fmt.Sprintf("Your flight %s (#%d) was canceled.", event.FlightName, event.FlightID),
		})
		if err != nil {
			n.logger.Error("send cancellation email", logger.F("user_id", userID), logger.F("error", err))
			continue
		}
		sent++
	}
	n.logger.Info("cancellation notices sent", logger.F("flight_id", event.FlightID), logger.F("sent", sent))
	return nil
}
