package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func decodeClaims(t *testing.T, token string) map[string]any {
	t.Helper()
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[2] != "" {
		t.Fatalf("Expected unsigned three-part token, got %q", token)
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("Invalid payload encoding: %v", err)
	}
	var claims map[string]any
	if err := json.Unmarshal(raw, &claims); err != nil {
		t.Fatalf("Invalid payload JSON: %v", err)
	}
	return claims
}

func TestEmulatorToken(t *testing.T) {
	iat := time.Unix(1_750_000_000, 0)
	claims := decodeClaims(t, EmulatorToken("events-dev", "admin-1", iat, time.Hour))

	if claims["aud"] != "events-dev" || claims["iss"] != "https://securetoken.google.com/events-dev" {
		t.Errorf("Unexpected audience/issuer: %v", claims)
	}
	if claims["sub"] != "admin-1" || claims["user_id"] != "admin-1" {
		t.Errorf("Unexpected subject: %v", claims)
	}
	if exp := claims["exp"].(float64); int64(exp) != iat.Add(time.Hour).Unix() {
		t.Errorf("Expected exp one hour after iat, got %v", exp)
	}
}

func TestEmulatorToken_Defaults(t *testing.T) {
	claims := decodeClaims(t, EmulatorToken("", "u", time.Unix(1, 0), 0))
	if claims["aud"] != defaultProjectID {
		t.Errorf("Expected default project, got %v", claims["aud"])
	}
	if int64(claims["exp"].(float64)) != 9999999999 {
		t.Errorf("Expected non-expiring token, got %v", claims["exp"])
	}
}
