package crypto

import (
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sealed, err := Encrypt(testKey, "sk-secret-api-key")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if strings.Contains(sealed, "sk-secret-api-key") {
		t.Fatalf("ciphertext leaks plaintext")
	}
	plain, err := Decrypt(testKey, sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "sk-secret-api-key" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	sealed, err := Encrypt(testKey, "value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := Decrypt("ffffffffffffffffffffffffffffffff", sealed); err == nil {
		t.Fatalf("expected auth failure")
	}
}

func TestShortMasterKeyRejected(t *testing.T) {
	if _, err := Encrypt("short", "value"); err == nil {
		t.Fatalf("expected key length error")
	}
}
