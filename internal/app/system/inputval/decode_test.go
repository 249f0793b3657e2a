package inputval

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/skilllink/internal/app/system/apperr"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"email":"a@b.co","password":"x","extra":1}`, ""},
		{"empty body", ``, "Request body is required."},
		{"malformed", `{"email":`, "Invalid JSON body."},
		{"wrong type", `{"email":5,"password":"x"}`, "Invalid value for email."},
		{"missing password", `{"email":"a@b.co"}`, "Password is required."},
		{"bad email", `{"email":"nope","password":"x"}`, "A valid email address is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst loginBody
			err := DecodeJSON(rec, req, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DecodeJSON error: %v", err)
				}
				if dst.Email != "a@b.co" {
					t.Errorf("Email = %q", dst.Email)
				}
				return
			}
			if !apperr.Is(err, apperr.Validation) {
				t.Fatalf("error = %v, want a Validation error", err)
			}
			if err.(*apperr.Error).Message != tt.wantErr {
				t.Errorf("message = %q, want %q", err.(*apperr.Error).Message, tt.wantErr)
			}
		})
	}
}
