package mailer

import (
	"sync"
	"testing"
	"time"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (c *captureMailer) Send(to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, to)
	return c.err
}

func (c *captureMailer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestSendAsyncDelivers(t *testing.T) {
	c := &captureMailer{}
	SendAsync(c, "cupid@example.com", "hi", "body")
	deadline := time.Now().Add(time.Second)
	for c.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("email never dispatched")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSendAsyncSkipsEmptyRecipient(t *testing.T) {
	c := &captureMailer{}
	SendAsync(c, "", "hi", "body")
	time.Sleep(20 * time.Millisecond)
	if c.count() != 0 {
		t.Fatal("email sent to empty recipient")
	}
}

func TestSendAsyncNilMailerIsNoOp(t *testing.T) {
	// Must not panic.
	SendAsync(nil, "cupid@example.com", "hi", "body")
}
