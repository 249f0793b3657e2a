package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents the token identity used by handler tests.
type TestUser struct {
	ID       string
	Email    string
	UserType string
}

// PlayerUser returns a TestUser with the player type and a fresh id.
func PlayerUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Email:    "player@test.com",
		UserType: models.UserTypePlayer,
	}
}

// OrgUser returns a TestUser with the org type and a fresh id.
func OrgUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Email:    "org@test.com",
		UserType: models.UserTypeOrg,
	}
}

// AdminUser returns a TestUser with the admin type and a fresh id.
func AdminUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Email:    "admin@test.com",
		UserType: models.UserTypeAdmin,
	}
}

// AsTestUser converts a stored user to the identity its token would carry.
func AsTestUser(u models.User) TestUser {
	return TestUser{ID: u.ID.Hex(), Email: u.Email, UserType: u.UserType}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses bearer token verification and injects the identity directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.TokenUser{
		ID:       user.ID,
		Email:    user.Email,
		UserType: user.UserType,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// JSONRequest creates a request whose body is v encoded as JSON.
// A string or []byte body is sent verbatim.
func JSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()

	var body io.Reader
	switch b := v.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	case []byte:
		body = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes the recorded response body into dst.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// Detail extracts the "detail" field of an error response.
func Detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	DecodeJSON(t, rec, &body)
	return body.Detail
}
