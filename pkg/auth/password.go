package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashMethod = "pbkdf2:sha256"
	iterations = 600000
	saltBytes  = 16
	keyBytes   = 32
)

// HashPassword returns a salted PBKDF2 hash encoded as
// "pbkdf2:sha256:<iterations>$<salt>$<hexdigest>".
func HashPassword(password string) string {
	salt := randomHex(saltBytes)
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyBytes, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", hashMethod, iterations, salt, hex.EncodeToString(key))
}

// CheckPassword validates a password against a stored hash in constant time.
func CheckPassword(password, stored string) bool {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, digest := parts[0], parts[1], parts[2]
	if !strings.HasPrefix(method, hashMethod+":") {
		return false
	}
	iter, err := strconv.Atoi(strings.TrimPrefix(method, hashMethod+":"))
	if err != nil || iter <= 0 {
		return false
	}
	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iter, len(want), sha256.New)
	return hmac.Equal(got, want)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "salt"
	}
	return hex.EncodeToString(buf)
}
