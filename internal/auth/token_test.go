package auth

import "testing"

func TestHashAndVerifyToken(t *testing.T) {
	token := "correct-horse-battery-staple"
	hash, err := HashToken(token)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == token {
		t.Fatal("hash must not equal cleartext")
	}
	if !VerifyTokenHash(hash, token) {
		t.Fatal("expected hash to verify")
	}
	if VerifyTokenHash(hash, "wrong-token-entirely") {
		t.Fatal("wrong token must not verify")
	}
}

func TestHashTokenRejectsShort(t *testing.T) {
	if _, err := HashToken("short"); err == nil {
		t.Fatal("expected error for short token")
	}
}

func TestVerifyTokenHashEmptyHash(t *testing.T) {
	if VerifyTokenHash("", "anything") {
		t.Fatal("empty hash must never verify")
	}
	if VerifyTokenHash("   ", "anything") {
		t.Fatal("blank hash must never verify")
	}
}

func TestEqualTokens(t *testing.T) {
	if !EqualTokens("abc123", "abc123") {
		t.Fatal("equal tokens must match")
	}
	if EqualTokens("abc123", "abc124") {
		t.Fatal("different tokens must not match")
	}
	if EqualTokens("", "") {
		t.Fatal("empty expected token must never match")
	}
}
