package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"valentine/pkg/domain"
)

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	f, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	users := []domain.User{
		{Username: "cupid", Email: "cupid@example.com", PasswordHash: "pbkdf2:sha256:1$s$d", CreatedAt: base},
		{Username: "juliet", Email: "juliet@example.com", PasswordHash: "pbkdf2:sha256:1$s$d", CreatedAt: base.Add(time.Minute)},
	}
	for _, u := range users {
		if err := f.SaveUser(u); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.AppendRequest(domain.ValentineRequest{From: "cupid", To: "juliet", Status: domain.RequestPending, SentAt: base}); err != nil {
		t.Fatal(err)
	}
	if err := f.AppendFollow(domain.Follow{Follower: "cupid", Following: "juliet", FollowedAt: base}); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := reopened.GetUser("cupid")
	if err != nil || !ok {
		t.Fatalf("user lost on reload: ok=%v err=%v", ok, err)
	}
	if got.PasswordHash != "pbkdf2:sha256:1$s$d" {
		t.Fatalf("password hash not persisted: %q", got.PasswordHash)
	}
	listed, _ := reopened.ListUsers()
	if len(listed) != 2 || listed[0].Username != "cupid" || listed[1].Username != "juliet" {
		t.Fatalf("registration order lost on reload: %+v", listed)
	}
	requests, _ := reopened.ListRequests()
	if len(requests) != 1 || requests[0].ID != 1 {
		t.Fatalf("requests lost on reload: %+v", requests)
	}
	follows, _ := reopened.ListFollows()
	if len(follows) != 1 {
		t.Fatalf("follows lost on reload: %+v", follows)
	}

	// The next id continues from the reloaded log.
	second, err := reopened.AppendRequest(domain.ValentineRequest{From: "juliet", To: "cupid", Status: domain.RequestPending})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != 2 {
		t.Fatalf("want id 2 after reload, got %d", second.ID)
	}
}

func TestFileStoreWritesPasswordFieldToDisk(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SaveUser(domain.User{Username: "cupid", PasswordHash: "secret-hash"}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, usersFile))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["cupid"]["password"] != "secret-hash" {
		t.Fatalf("password field missing from document: %v", doc["cupid"])
	}
}

func TestFileStoreStartsEmptyWithoutDocuments(t *testing.T) {
	f, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	count, err := f.UserCount()
	if err != nil || count != 0 {
		t.Fatalf("want empty store, got count=%d err=%v", count, err)
	}
}
