package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DecisionTokenTTL is how long an issued decision token stays valid.
const DecisionTokenTTL = 15 * time.Minute

// DecisionTokenService issues and verifies short-lived HMAC-signed tokens
// binding a decision to the member it was issued to. Pure computation, no
// I/O; safe for concurrent use.
type DecisionTokenService struct {
	Secret []byte
	Now    func() time.Time // nil means time.Now
}

func (s *DecisionTokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DecisionTokenService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Issue mints a token for memberID: base64url(memberId:issuedAtMillis:sig).
func (s *DecisionTokenService) Issue(memberID string) string {
	payload := fmt.Sprintf("%s:%d", memberID, s.now().UnixMilli())
	token := payload + ":" + s.sign(payload)
	return base64.RawURLEncoding.EncodeToString([]byte(token))
}

// Verify reports whether token was issued by us, to memberID, within the TTL
// window. Malformed input of any shape yields false, never an error.
func (s *DecisionTokenService) Verify(token, memberID string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return false
	}
	if parts[0] != memberID {
		return false
	}

	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}
	age := s.now().UnixMilli() - issuedAt
	if age < 0 || age > DecisionTokenTTL.Milliseconds() {
		return false
	}

	expected := s.sign(parts[0] + ":" + parts[1])
	return hmac.Equal([]byte(expected), []byte(parts[2]))
}
