package identity

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestFromRequestHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/chats", nil)
	req.Header.Set("X-User-Id", "42")

	userID, err := FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestFromRequestInvalidHeader(t *testing.T) {
	for _, value := range []string{"0", "-5", "abc"} {
		req := httptest.NewRequest("GET", "/chats", nil)
		req.Header.Set("X-User-Id", value)

		if _, err := FromRequest(req); !errors.Is(err, ErrNoIdentity) {
			t.Errorf("FromRequest() with X-User-Id=%q error = %v, want ErrNoIdentity", value, err)
		}
	}
}

func TestFromRequestBearerToken(t *testing.T) {
	token, err := GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/chats", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	userID, err := FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest() error = %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}
}

func TestFromRequestGarbageToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/chats", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	if _, err := FromRequest(req); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("FromRequest() error = %v, want ErrNoIdentity", err)
	}
}

func TestFromRequestNoIdentity(t *testing.T) {
	req := httptest.NewRequest("GET", "/chats", nil)

	if _, err := FromRequest(req); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("FromRequest() error = %v, want ErrNoIdentity", err)
	}
}
