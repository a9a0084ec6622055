package services

import (
	"crypto/tls"
	"fmt"
	"log"

	"tlbc-notify-backend/config"
	"tlbc-notify-backend/models"

	"github.com/google/uuid"
	mail "gopkg.in/gomail.v2"
)

// EmailChannel sends HTML email over SMTP. Accounts are tried in the
// configured order; the first one that accepts the message wins. This
// replaces the old per-provider service classes with one parametrized
// channel.
type EmailChannel struct {
	accounts []config.SMTPAccount
}

func NewEmailChannel(accounts []config.SMTPAccount) *EmailChannel {
	return &EmailChannel{accounts: accounts}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Address(r models.Recipient) string { return r.Email }

// Send builds the MIME message and walks the account list. Returns the
// Message-ID assigned to the delivered mail.
func (c *EmailChannel) Send(msg models.RenderedMessage, to string) (string, error) {
	if len(c.accounts) == 0 {
		return "", &DeliveryError{Channel: c.Name(), Err: fmt.Errorf("no SMTP accounts configured")}
	}

	var lastErr error
	for i, acct := range c.accounts {
		messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), acct.Host)

		m := mail.NewMessage()
		m.SetAddressHeader("From", acct.User, acct.FromName)
		m.SetHeader("To", to)
		m.SetHeader("Subject", msg.Subject)
		m.SetHeader("Message-ID", messageID)
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
		if msg.Attachment != nil {
			m.Embed(msg.Attachment.Path,
				mail.Rename(msg.Attachment.Filename),
				mail.SetHeader(map[string][]string{"Content-ID": {"<" + msg.Attachment.CID + ">"}}))
		}

		d := mail.NewDialer(acct.Host, acct.Port, acct.User, acct.Pass)
		d.TLSConfig = &tls.Config{ServerName: acct.Host}

		if err := d.DialAndSend(m); err != nil {
			lastErr = err
			if i < len(c.accounts)-1 {
				log.Printf("SMTP account %s failed (%v), trying fallback", acct.Host, err)
			}
			continue
		}
		return messageID, nil
	}

	return "", &DeliveryError{Channel: c.Name(), Err: lastErr}
}
