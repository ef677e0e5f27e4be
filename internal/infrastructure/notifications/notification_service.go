package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// NotificationServiceImpl implements domain.NotificationService. SMS goes out
// through Twilio; email dispatch is delegated to an injected sender so the
// transport stays outside this module. Without credentials both channels log
// the message instead of sending, which keeps local development working.
type NotificationServiceImpl struct {
	client      *twilio.RestClient
	fromNumber  string
	emailSender EmailSender
}

// EmailSender dispatches a one-time code to an email destination.
type EmailSender interface {
	Send(ctx context.Context, to, name, code string) error
}

// NewNotificationService creates a notification service. emailSender may be
// nil, in which case email falls back to logging.
func NewNotificationService(accountSID, authToken, fromNumber string, emailSender EmailSender) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &NotificationServiceImpl{
		client:      client,
		fromNumber:  fromNumber,
		emailSender: emailSender,
	}
}

// SendOTPSMS implements domain.NotificationService
func (n *NotificationServiceImpl) SendOTPSMS(ctx context.Context, to, code string) error {
	message := fmt.Sprintf("Your NVHealth verification code is %s.", code)

	if n.fromNumber == "" {
		log.Printf("[MOCK SMS] To: %s, Message: %s", to, message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.fromNumber)
	params.SetBody(message)

	_, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}

// SendOTPEmail implements domain.NotificationService
func (n *NotificationServiceImpl) SendOTPEmail(ctx context.Context, to, name, code string) error {
	if n.emailSender == nil {
		log.Printf("[MOCK EMAIL] To: %s, Name: %s, Code: %s", to, name, code)
		return nil
	}
	if err := n.emailSender.Send(ctx, to, name, code); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
