package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemorySessionStoreLifecycle(t *testing.T) {
	s := NewMemorySessionStore()
	token, err := s.NewSession("cupid")
	if err != nil {
		t.Fatal(err)
	}
	username, ok, err := s.GetUsernameByToken(token)
	if err != nil || !ok || username != "cupid" {
		t.Fatalf("lookup: username=%q ok=%v err=%v", username, ok, err)
	}
	if err := s.DeleteSession(token); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.GetUsernameByToken(token); ok {
		t.Fatal("token valid after delete")
	}
	if _, ok, _ := s.GetUsernameByToken("bogus"); ok {
		t.Fatal("unknown token resolved")
	}
}

func TestRedisSessionStoreLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisSessionStore(client, time.Hour)

	token, err := s.NewSession("juliet")
	if err != nil {
		t.Fatal(err)
	}
	username, ok, err := s.GetUsernameByToken(token)
	if err != nil || !ok || username != "juliet" {
		t.Fatalf("lookup: username=%q ok=%v err=%v", username, ok, err)
	}

	// Sessions expire on their own.
	mr.FastForward(2 * time.Hour)
	if _, ok, _ := s.GetUsernameByToken(token); ok {
		t.Fatal("token valid after ttl expiry")
	}

	token, _ = s.NewSession("juliet")
	if err := s.DeleteSession(token); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.GetUsernameByToken(token); ok {
		t.Fatal("token valid after delete")
	}
}

func TestJWTSessionStoreLifecycle(t *testing.T) {
	s := NewJWTSessionStore("test-secret", time.Hour)
	token, err := s.NewSession("romeo")
	if err != nil {
		t.Fatal(err)
	}
	username, ok, err := s.GetUsernameByToken(token)
	if err != nil || !ok || username != "romeo" {
		t.Fatalf("lookup: username=%q ok=%v err=%v", username, ok, err)
	}

	// Logout revokes by jti even though the signature stays valid.
	if err := s.DeleteSession(token); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.GetUsernameByToken(token); ok {
		t.Fatal("token valid after revocation")
	}
}

func TestJWTSessionStoreRejectsForeignSignature(t *testing.T) {
	issuer := NewJWTSessionStore("secret-a", time.Hour)
	verifier := NewJWTSessionStore("secret-b", time.Hour)
	token, err := issuer.NewSession("romeo")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := verifier.GetUsernameByToken(token); ok {
		t.Fatal("token signed with a different secret accepted")
	}
	if _, ok, _ := verifier.GetUsernameByToken("not-a-jwt"); ok {
		t.Fatal("garbage token accepted")
	}
}
