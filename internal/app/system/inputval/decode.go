package inputval

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/skilllink/internal/app/system/apperr"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads r's JSON body into dst and then validates dst.
// Failures come back as apperr Validation errors carrying a client-facing
// message. Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.BadRequest("Request body is required.")
		case errors.As(err, &tooLarge):
			return apperr.BadRequest("Request body is too large.")
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return apperr.BadRequest("Invalid value for " + typeErr.Field + ".")
			}
			return apperr.BadRequest("Invalid JSON body.")
		}
	}

	if res := Validate(dst); res.HasErrors() {
		return apperr.BadRequest(res.First())
	}
	return nil
}
