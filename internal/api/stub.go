package api

import (
	"context"
	"strings"
	"time"

	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// Stub is the deterministic in-process collaborator used until the real
// services exist. The inbox is a fixed five-message list and reply
// generation keys off keyword presence in the body. Swapping in a real
// backend means implementing Client; nothing upstream changes.
type Stub struct {
	latency time.Duration
	emails  []models.EmailMessage
}

// NewStub creates a stub collaborator. latency simulates the round trip on
// every call; zero means calls resolve immediately.
func NewStub(latency time.Duration) *Stub {
	return &Stub{
		latency: latency,
		emails:  fixtureEmails(),
	}
}

// wait simulates the network round trip, honoring cancellation.
func (s *Stub) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Stub) ConnectMailbox(ctx context.Context, tokens map[string]string) error {
	_ = tokens
	return s.wait(ctx)
}

func (s *Stub) DisconnectMailbox(ctx context.Context) error {
	return s.wait(ctx)
}

func (s *Stub) ListEmails(ctx context.Context) ([]models.EmailMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]models.EmailMessage, len(s.emails))
	copy(out, s.emails)
	return out, nil
}

// GenerateReply builds a canned reply from keywords in the body. The order
// of the checks is load-bearing: "damaged" must win over the generic
// "order"+"shipping" pair (a damaged-in-transit complaint mentions both),
// and so on down the chain.
func (s *Stub) GenerateReply(ctx context.Context, emailID, bodyText string) (string, error) {
	_ = emailID
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	reply := "Thank you for your message. "

	switch {
	case strings.Contains(bodyText, "damaged"):
		reply += "I'm sorry to hear about the damaged product. I've processed your return request and we'll send a replacement as soon as possible. You'll receive a return label in your email shortly."
	case strings.Contains(bodyText, "order") && strings.Contains(bodyText, "shipping"):
		reply += "I've checked your order and it's currently being processed. You should receive a shipping notification within the next 24-48 hours. If you have any other questions, please let me know."
	case strings.Contains(bodyText, "out of stock"):
		reply += "Thank you for your interest in our product. We expect it to be back in stock within the next two weeks. Would you like me to notify you when it's available?"
	case strings.Contains(bodyText, "discount") || strings.Contains(bodyText, "code"):
		reply += "I've checked the discount code and it appears there was a system issue. I've manually applied a 25% discount to your account which you can use on your next purchase."
	case strings.Contains(bodyText, "wrong item"):
		reply += "I apologize for the mistake with your order. Please keep the item you received, and we'll send you the correct one at no additional cost. It should arrive within 3-5 business days."
	default:
		reply += "I'll look into this matter immediately and get back to you as soon as possible. Is there anything else you would like me to help you with?"
	}

	reply += "\n\nBest regards,\n[Your Name]\n[Your Company]"
	return reply, nil
}

func (s *Stub) SendReply(ctx context.Context, emailID, replyText string) error {
	_, _ = emailID, replyText
	return s.wait(ctx)
}
