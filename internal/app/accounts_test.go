package app

import (
	"errors"
	"testing"

	"valentine/pkg/domain"
)

func TestRegisterDuplicateUsernameKeepsFirstRecord(t *testing.T) {
	a, _ := newTestApp(t)
	first, _, err := a.Register("alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = a.Register("alice", "other@x.com", "pw2")
	if CodeOf(err) != CodeConflict {
		t.Fatalf("want conflict, got %v", err)
	}
	profile, err := a.GetProfile("alice")
	if err != nil {
		t.Fatal(err)
	}
	if profile.Email != first.Email {
		t.Fatalf("second attempt overwrote the record: %+v", profile)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _ := newTestApp(t)
	if _, _, err := a.Register("alice", "a@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}
	_, _, err := a.Register("bob", "a@x.com", "pw2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestRegisterAppliesDefaults(t *testing.T) {
	a, _ := newTestApp(t)
	user, token, err := a.Register("alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("registration should start a session")
	}
	if user.RelationshipStatus != "Looking" || user.Theme != "default" {
		t.Fatalf("profile defaults wrong: %+v", user)
	}
	want := domain.NotificationSettings{EmailOnMessage: true, EmailOnRequest: true}
	if user.Settings != want {
		t.Fatalf("settings defaults wrong: %+v", user.Settings)
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	a, _ := newTestApp(t)
	register(t, a, "alice")

	if _, err := a.Login("alice", "wrong"); CodeOf(err) != CodeUnauthorized {
		t.Fatalf("wrong password: want unauthorized, got %v", err)
	}
	if _, err := a.Login("ghost", "pw"); CodeOf(err) != CodeUnauthorized {
		t.Fatalf("unknown user: want unauthorized, got %v", err)
	}

	token, err := a.Login("alice", "pw-alice")
	if err != nil {
		t.Fatal(err)
	}
	user, err := a.Authenticate(token)
	if err != nil || user.Username != "alice" {
		t.Fatalf("authenticate: user=%+v err=%v", user, err)
	}

	if err := a.Logout(token); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Authenticate(token); CodeOf(err) != CodeUnauthorized {
		t.Fatalf("token alive after logout: %v", err)
	}
	// Logout is idempotent.
	if err := a.Logout(token); err != nil {
		t.Fatal(err)
	}
}

func TestSetupAdminBootstrap(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.SetupAdmin(); CodeOf(err) != CodeInvalidState {
		t.Fatalf("no users: want invalid_state, got %v", err)
	}
	register(t, a, "first")
	register(t, a, "second")
	admin, err := a.SetupAdmin()
	if err != nil || admin != "first" {
		t.Fatalf("want first promoted, got admin=%q err=%v", admin, err)
	}
	user, _ := a.GetProfile("first")
	if !user.IsAdmin {
		t.Fatal("first user not admin after setup")
	}
	if _, err := a.SetupAdmin(); CodeOf(err) != CodeInvalidState {
		t.Fatalf("second call: want invalid_state, got %v", err)
	}
}

func TestUpdateBioTruncates(t *testing.T) {
	a, _ := newTestApp(t)
	register(t, a, "alice")
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	if err := a.UpdateBio("alice", string(long)); err != nil {
		t.Fatal(err)
	}
	user, _ := a.GetProfile("alice")
	if len(user.Bio) != 200 {
		t.Fatalf("bio not truncated: %d chars", len(user.Bio))
	}
}

func TestUploadProfilePictureRejectsNonImage(t *testing.T) {
	a, _ := newTestApp(t)
	register(t, a, "alice")
	err := a.UploadProfilePicture("alice", []byte("not an image"), "text/plain")
	if CodeOf(err) != CodeInvalidInput {
		t.Fatalf("want invalid_input, got %v", err)
	}
	if err := a.UploadProfilePicture("alice", []byte{0x89, 0x50}, "image/png"); err != nil {
		t.Fatal(err)
	}
	user, _ := a.GetProfile("alice")
	if user.ProfilePicture == "" {
		t.Fatal("profile picture not stored")
	}
}

func TestSearchUsers(t *testing.T) {
	a, _ := newTestApp(t)
	register(t, a, "alice")
	register(t, a, "alicia")
	register(t, a, "bob")

	if _, err := a.SearchUsers("bob", "a"); CodeOf(err) != CodeInvalidInput {
		t.Fatalf("short query: want invalid_input, got %v", err)
	}

	results, err := a.SearchUsers("alice", "ali")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Username != "alicia" {
		t.Fatalf("search should exclude the caller: %+v", results)
	}

	results, _ = a.SearchUsers("bob", "ALI")
	if len(results) != 2 {
		t.Fatalf("search should be case-insensitive: %+v", results)
	}
}
