package app

import (
	"sync"
	"testing"

	"valentine/pkg/store"
)

type recordedEvent struct {
	Room  string
	Event string
	Data  any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeNotifier) Emit(room, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Room: room, Event: event, Data: data})
}

func (f *fakeNotifier) all() []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedEvent(nil), f.events...)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // recipient addresses
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func newTestApp(t *testing.T) (*App, *fakeNotifier) {
	t.Helper()
	notifier := &fakeNotifier{}
	a, err := New(Config{
		Store:    store.NewMemoryStore(),
		Sessions: store.NewMemorySessionStore(),
		Notifier: notifier,
		Mailer:   &fakeMailer{},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a, notifier
}

func register(t *testing.T, a *App, username string) {
	t.Helper()
	if _, _, err := a.Register(username, username+"@example.com", "pw-"+username); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
}
