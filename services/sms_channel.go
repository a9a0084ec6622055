package services

import (
	"fmt"

	"tlbc-notify-backend/config"
	"tlbc-notify-backend/models"
	"tlbc-notify-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSChannel sends text messages via Twilio. A messaging service SID
// takes precedence over a plain From number when both are configured.
type SMSChannel struct {
	client              *twilio.RestClient
	messagingServiceSID string
	fromNumber          string
}

func NewSMSChannel(cfg *config.Config) *SMSChannel {
	return &SMSChannel{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		messagingServiceSID: cfg.TwilioMessagingServiceSID,
		fromNumber:          cfg.TwilioPhoneNumber,
	}
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Address(r models.Recipient) string {
	if !utils.ValidatePhone(r.PhoneNumber) {
		return ""
	}
	return utils.CleanPhone(r.PhoneNumber)
}

func (c *SMSChannel) Send(msg models.RenderedMessage, to string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(msg.Text)
	if c.messagingServiceSID != "" {
		params.SetMessagingServiceSid(c.messagingServiceSID)
	} else {
		params.SetFrom(c.fromNumber)
	}

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return "", &DeliveryError{Channel: c.Name(), Err: err}
	}
	if resp.Sid == nil {
		return "", &DeliveryError{Channel: c.Name(), Err: fmt.Errorf("no SID returned")}
	}
	return *resp.Sid, nil
}
