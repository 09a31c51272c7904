// Package auth holds helpers for running against the Firebase Auth Emulator.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

const defaultProjectID = "local-project-id"

// EmulatorToken creates an unsigned ID token the Auth Emulator accepts for uid.
// ttl <= 0 yields a token that effectively never expires.
func EmulatorToken(projectID, uid string, issuedAt time.Time, ttl time.Duration) string {
	if projectID == "" {
		projectID = defaultProjectID
	}
	exp := int64(9999999999)
	if ttl > 0 {
		exp = issuedAt.Add(ttl).Unix()
	}

	header := `{"alg":"none","typ":"JWT"}`
	payload := map[string]any{
		"iss":       "https://securetoken.google.com/" + projectID,
		"aud":       projectID,
		"auth_time": issuedAt.Unix(),
		"user_id":   uid,
		"sub":       uid,
		"iat":       issuedAt.Unix(),
		"exp":       exp,
	}

	pBytes, _ := json.Marshal(payload)
	enc := base64.RawURLEncoding

	// Header.Payload.Signature, the signature is empty for alg "none"
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString(pBytes) + "."
}
