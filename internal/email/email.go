package email

import "context"

// Email represents an email message to be sent.
type Email struct {
	To          []string
	From        string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Attachment represents a file attached to an email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Sender defines the interface for sending emails. Implementations can use
// SMTP, Postmark, SES, etc.
type Sender interface {
	// Send sends an email message. Returns the provider's message ID when
	// one is available.
	Send(ctx context.Context, email *Email) (string, error)
}
