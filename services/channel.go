package services

import "tlbc-notify-backend/models"

// DeliveryChannel is the adapter interface for outbound transports.
// Send performs exactly one delivery attempt; retrying is the
// dispatcher's job, layered on top.
type DeliveryChannel interface {
	// Name identifies the channel in logs and errors (e.g. "email").
	Name() string
	// Address extracts this channel's destination from a recipient,
	// empty when the recipient cannot be reached on this channel.
	Address(r models.Recipient) string
	// Send delivers one message and returns the provider message id.
	Send(msg models.RenderedMessage, to string) (string, error)
}
