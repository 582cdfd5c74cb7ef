package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"valentine/internal/analytics"
	"valentine/pkg/domain"
)

// isBlocked reports whether blocker has blocked blocked. Asymmetric.
func (a *App) isBlocked(blocker, blocked string) (bool, error) {
	blocks, err := a.store.ListBlocks()
	if err != nil {
		return false, fmt.Errorf("list blocks: %w", err)
	}
	for _, b := range blocks {
		if b.Blocker == blocker && b.Blocked == blocked {
			return true, nil
		}
	}
	return false, nil
}

func (a *App) requireUser(username string) error {
	_, exists, err := a.store.GetUser(username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// Follow adds a directed edge, persists a notification and pushes it to
// the target's room.
func (a *App) Follow(follower, target string) error {
	if follower == target {
		return ErrSelfFollow
	}
	if err := a.requireUser(target); err != nil {
		return err
	}
	follows, err := a.store.ListFollows()
	if err != nil {
		return fmt.Errorf("list follows: %w", err)
	}
	for _, f := range follows {
		if f.Follower == follower && f.Following == target {
			return ErrAlreadyFollowing
		}
	}
	if err := a.store.AppendFollow(domain.Follow{
		Follower:   follower,
		Following:  target,
		FollowedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("save follow: %w", err)
	}

	a.notify(domain.NotificationFollow, follower, target,
		fmt.Sprintf("%s started following you", follower))
	a.tracker.Incr(follower, analytics.CounterFollows)
	return nil
}

// Unfollow removes the edge; removing an absent edge succeeds.
func (a *App) Unfollow(follower, target string) error {
	return a.store.RemoveFollow(follower, target)
}

// Followers lists usernames following the given user.
func (a *App) Followers(username string) ([]string, error) {
	follows, err := a.store.ListFollows()
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	followers := make([]string, 0)
	for _, f := range follows {
		if f.Following == username {
			followers = append(followers, f.Follower)
		}
	}
	return followers, nil
}

// Following lists usernames the given user follows.
func (a *App) Following(username string) ([]string, error) {
	follows, err := a.store.ListFollows()
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	following := make([]string, 0)
	for _, f := range follows {
		if f.Follower == username {
			following = append(following, f.Following)
		}
	}
	return following, nil
}

// Like adds a like edge with notification and realtime push.
func (a *App) Like(user, target string) error {
	if user == target {
		return ErrSelfLike
	}
	if err := a.requireUser(target); err != nil {
		return err
	}
	likes, err := a.store.ListLikes()
	if err != nil {
		return fmt.Errorf("list likes: %w", err)
	}
	for _, l := range likes {
		if l.User == user && l.LikesUsername == target {
			return ErrAlreadyLiked
		}
	}
	if err := a.store.AppendLike(domain.Like{
		User:          user,
		LikesUsername: target,
		LikedAt:       time.Now(),
	}); err != nil {
		return fmt.Errorf("save like: %w", err)
	}

	a.notify(domain.NotificationLike, user, target,
		fmt.Sprintf("%s liked you! 💕", user))
	a.tracker.Incr(user, analytics.CounterLikes)
	return nil
}

// Unlike removes the edge; removing an absent edge succeeds.
func (a *App) Unlike(user, target string) error {
	return a.store.RemoveLike(user, target)
}

// Likes lists usernames who liked the given user.
func (a *App) Likes(username string) ([]string, error) {
	likes, err := a.store.ListLikes()
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	users := make([]string, 0)
	for _, l := range likes {
		if l.LikesUsername == username {
			users = append(users, l.User)
		}
	}
	return users, nil
}

// Block adds an asymmetric block edge. Existing messages and requests are
// not retracted.
func (a *App) Block(blocker, target string) error {
	if err := a.requireUser(target); err != nil {
		return err
	}
	if blocker == target {
		return ErrSelfBlock
	}
	already, err := a.isBlocked(blocker, target)
	if err != nil {
		return err
	}
	if already {
		return ErrAlreadyBlocked
	}
	if err := a.store.AppendBlock(domain.Block{
		Blocker:   blocker,
		Blocked:   target,
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("save block: %w", err)
	}
	return nil
}

// Unblock removes the edge; removing an absent edge succeeds.
func (a *App) Unblock(blocker, target string) error {
	return a.store.RemoveBlock(blocker, target)
}

// BlockedList lists usernames the caller has blocked.
func (a *App) BlockedList(blocker string) ([]string, error) {
	blocks, err := a.store.ListBlocks()
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	blocked := make([]string, 0)
	for _, b := range blocks {
		if b.Blocker == blocker {
			blocked = append(blocked, b.Blocked)
		}
	}
	return blocked, nil
}

// Report files a report against the target. Append-only, no workflow.
func (a *App) Report(reporter, target, reason, message string) error {
	if err := a.requireUser(target); err != nil {
		return err
	}
	return a.store.AppendReport(domain.Report{
		Reporter:  reporter,
		Reported:  target,
		Reason:    strings.TrimSpace(reason),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now(),
	})
}

// notify persists a notification and pushes it to the target's room.
// Both halves are best-effort relative to the primary operation.
func (a *App) notify(kind domain.NotificationType, from, to, message string) {
	if _, err := a.store.AppendNotification(domain.Notification{
		Type:      kind,
		From:      from,
		To:        to,
		Message:   message,
		CreatedAt: time.Now(),
	}); err != nil {
		// The triggering write already persisted; drop the notification.
		slog.Warn("notification persist failed", "to", to, "type", kind, "error", err)
		return
	}
	a.notifier.Emit(to, EventUserNotification, map[string]any{
		"type":    string(kind),
		"message": message,
		"from":    from,
	})
}
