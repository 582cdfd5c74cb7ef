package app

import (
	"fmt"
	"strings"
	"time"

	"valentine/internal/analytics"
	"valentine/internal/mailer"
	"valentine/pkg/domain"
)

// SendRequest creates a pending valentine request. Dedup is on the
// (from,to) pair regardless of the earlier request's status, so a sender
// can never re-request the same recipient, even after a rejection.
func (a *App) SendRequest(from, to, message string) (domain.ValentineRequest, error) {
	to = strings.TrimSpace(to)
	message = strings.TrimSpace(message)
	if from == to {
		return domain.ValentineRequest{}, ErrSelfRequest
	}
	recipient, exists, err := a.store.GetUser(to)
	if err != nil {
		return domain.ValentineRequest{}, fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return domain.ValentineRequest{}, ErrUserNotFound
	}
	blocked, err := a.isBlocked(to, from)
	if err != nil {
		return domain.ValentineRequest{}, err
	}
	if blocked {
		return domain.ValentineRequest{}, ErrRequestBlocked
	}
	existing, err := a.store.ListRequests()
	if err != nil {
		return domain.ValentineRequest{}, fmt.Errorf("list requests: %w", err)
	}
	for _, r := range existing {
		if r.From == from && r.To == to {
			return domain.ValentineRequest{}, ErrDuplicateRequest
		}
	}

	created, err := a.store.AppendRequest(domain.ValentineRequest{
		From:    from,
		To:      to,
		Message: message,
		Status:  domain.RequestPending,
		SentAt:  time.Now(),
	})
	if err != nil {
		return domain.ValentineRequest{}, fmt.Errorf("save request: %w", err)
	}

	if recipient.Settings.EmailOnRequest {
		mailer.SendAsync(a.mailer, recipient.Email,
			fmt.Sprintf("Valentine Request from %s", from),
			fmt.Sprintf("You got a Valentine Request! 💕\n\n%s sent you a Valentine request!\n\n\"%s\"\n\nRespond at %s", from, message, a.dashboardLink()))
	}
	a.notify(domain.NotificationRequest, from, to,
		fmt.Sprintf("%s sent you a Valentine request", from))
	a.tracker.Incr(from, analytics.CounterRequestsSent)
	return created, nil
}

// SentRequests lists requests the user has sent.
func (a *App) SentRequests(username string) ([]domain.ValentineRequest, error) {
	all, err := a.store.ListRequests()
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	sent := make([]domain.ValentineRequest, 0)
	for _, r := range all {
		if r.From == username {
			sent = append(sent, r)
		}
	}
	return sent, nil
}

// ReceivedRequests lists requests addressed to the user.
func (a *App) ReceivedRequests(username string) ([]domain.ValentineRequest, error) {
	all, err := a.store.ListRequests()
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	received := make([]domain.ValentineRequest, 0)
	for _, r := range all {
		if r.To == username {
			received = append(received, r)
		}
	}
	return received, nil
}

// RespondRequest transitions a pending request exactly once. Only the
// recipient may respond; response is "accept" or "reject". The requester
// is emailed the outcome; no realtime event is pushed on response.
func (a *App) RespondRequest(recipient string, requestID int, response, responseMessage string) (domain.ValentineRequest, error) {
	response = strings.ToLower(strings.TrimSpace(response))
	responseMessage = strings.TrimSpace(responseMessage)

	all, err := a.store.ListRequests()
	if err != nil {
		return domain.ValentineRequest{}, fmt.Errorf("list requests: %w", err)
	}
	var req domain.ValentineRequest
	found := false
	for _, r := range all {
		if r.ID == requestID && r.To == recipient {
			req = r
			found = true
			break
		}
	}
	if !found {
		return domain.ValentineRequest{}, ErrRequestNotFound
	}
	if req.Status != domain.RequestPending {
		return domain.ValentineRequest{}, ErrAlreadyResponded
	}
	switch response {
	case "accept":
		req.Status = domain.RequestAccepted
	case "reject":
		req.Status = domain.RequestRejected
	default:
		return domain.ValentineRequest{}, ErrInvalidResponse
	}
	now := time.Now()
	req.ResponseMessage = responseMessage
	req.RespondedAt = &now
	if err := a.store.UpdateRequest(req); err != nil {
		return domain.ValentineRequest{}, fmt.Errorf("update request: %w", err)
	}

	requester, exists, err := a.store.GetUser(req.From)
	if err == nil && exists {
		outcome := "accepted your Valentine request! 💚"
		if req.Status == domain.RequestRejected {
			outcome = "declined your Valentine request 💔"
		}
		mailer.SendAsync(a.mailer, requester.Email,
			fmt.Sprintf("Valentine Response from %s", recipient),
			fmt.Sprintf("%s %s\n\n\"%s\"\n\nSee the response at %s", recipient, outcome, responseMessage, a.dashboardLink()))
	}
	return req, nil
}
