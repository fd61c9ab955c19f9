package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// maxBodyBytes bounds request bodies; review payloads are tiny.
const maxBodyBytes = 1 << 16

// Validate is the shared validator instance.
var Validate = validator.New()

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	return Validate.Struct(v)
}

// QueryInt reads an optional integer query parameter. A missing parameter
// yields def; a malformed one yields an invalid parameter error.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewInvalidParameterError(name, "must be an integer")
	}
	return v, nil
}

// QueryUUID reads an optional UUID query parameter. A missing parameter yields nil.
func QueryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewInvalidParameterError(name, fmt.Sprintf("must be a UUID, got %q", raw))
	}
	return &id, nil
}
