package email

import (
	"context"
	"fmt"

	"github.com/ecarponi/obsbook/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify user %d: %s for slot %d (%s) starting %s\n",
		event.UserID, event.Type, event.SlotID, event.SlotTitle, event.StartTime)
	return nil
}
