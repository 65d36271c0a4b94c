package session

import "testing"

func TestNewTokenIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewTokenID()
		if err != nil {
			t.Fatalf("NewTokenID: %v", err)
		}
		// 32 bytes of entropy encode to 43 url-safe characters.
		if len(id) != 43 {
			t.Fatalf("unexpected token length %d: %q", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate token generated: %q", id)
		}
		seen[id] = true
	}
}

func TestNewCodecModes(t *testing.T) {
	if _, err := NewCodec("", ""); err != nil {
		t.Fatalf("empty mode should default to opaque: %v", err)
	}
	if _, err := NewCodec(CodecOpaque, ""); err != nil {
		t.Fatalf("opaque codec: %v", err)
	}
	if _, err := NewCodec(CodecHS256, ""); err == nil {
		t.Fatalf("hs256 without secret should fail")
	}
	if _, err := NewCodec("paseto", ""); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestOpaqueCodecRejectsEmptyToken(t *testing.T) {
	codec, err := NewCodec(CodecOpaque, "")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if _, err := codec.Decode(""); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestJWTCodecRejectsForeignSignature(t *testing.T) {
	signer, err := NewCodec(CodecHS256, "secret-a")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	verifier, err := NewCodec(CodecHS256, "secret-b")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := signer.Encode("session-id")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := verifier.Decode(token); err == nil {
		t.Fatalf("expected error for foreign signature")
	}

	id, err := signer.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if id != "session-id" {
		t.Fatalf("unexpected id: %q", id)
	}
}
