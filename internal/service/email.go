package service

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"github.com/Zifeldev/langback/internal/lang"
	"github.com/Zifeldev/langback/internal/metrics"
)

var ErrEmptyEmail = errors.New("email has no readable text")

// Email is the part of an RFC 822 message that matters for detection.
type Email struct {
	MessageID   string     `json:"message_id,omitempty"`
	From        string     `json:"from,omitempty"`
	To          []string   `json:"to,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Text        string     `json:"text"`
	Attachments int        `json:"attachments"`
	WordCount   int        `json:"word_count"`
}

// EmailResult pairs an extracted message with its detection result.
type EmailResult struct {
	Email  *Email  `json:"email"`
	Result *Result `json:"result"`
}

// EmailExtractor pulls the readable body out of a raw message, without
// quoted replies and signatures.
type EmailExtractor struct{}

func NewEmailExtractor() *EmailExtractor {
	return &EmailExtractor{}
}

func (e *EmailExtractor) Extract(_ context.Context, raw []byte) (*Email, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	subject := env.GetHeader("Subject")
	if subject != "" {
		if dec, err := (&mime.WordDecoder{}).DecodeHeader(subject); err == nil {
			subject = dec
		}
	}

	from := env.GetHeader("From")
	if a, err := mail.ParseAddress(from); err == nil {
		from = a.Address
	}

	var to []string
	for _, v := range env.GetHeaderValues("To") {
		if addrs, err := mail.ParseAddressList(v); err == nil {
			for _, a := range addrs {
				to = append(to, a.Address)
			}
		}
	}

	var date *time.Time
	if dv := env.GetHeader("Date"); dv != "" {
		if dt, err := mail.ParseDate(dv); err == nil {
			date = &dt
		}
	}

	body := strings.TrimSpace(env.Text)
	if body == "" && env.HTML != "" {
		body = env.HTML
	}
	clean := lang.CleanText(body)

	return &Email{
		MessageID:   strings.Trim(env.GetHeader("Message-ID"), " <>"),
		From:        from,
		To:          to,
		Subject:     subject,
		Date:        date,
		Text:        clean,
		Attachments: len(env.Attachments),
		WordCount:   len(strings.Fields(clean)),
	}, nil
}

// DetectEmail extracts the body of raw and detects its language. A message
// without body text falls back to its subject.
func (s *DetectionService) DetectEmail(ctx context.Context, raw []byte) (*EmailResult, error) {
	email, err := s.emails.Extract(ctx, raw)
	if err != nil {
		metrics.DetectionsFailed.Inc()
		return nil, err
	}
	text := email.Text
	if strings.TrimSpace(text) == "" {
		text = email.Subject
	}
	if strings.TrimSpace(text) == "" {
		metrics.DetectionsFailed.Inc()
		return nil, ErrEmptyEmail
	}
	res, err := s.Detect(ctx, text)
	if err != nil {
		return nil, err
	}
	return &EmailResult{Email: email, Result: res}, nil
}
