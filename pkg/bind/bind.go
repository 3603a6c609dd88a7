// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/velocart/config"
	"github.com/shashiranjanraj/velocart/pkg/validate"
)

const defaultMaxBody = 1 << 20

func maxBodyBytes() int64 {
	n := config.GetInt("MAX_BODY_BYTES", defaultMaxBody)
	if n <= 0 {
		return defaultMaxBody
	}
	return int64(n)
}

// JSON decodes r.Body into dest and runs validation. Unknown fields are
// rejected so typos in admin payloads surface instead of being dropped.
//
// It returns (errs, nil) for validation failures and (nil, err) for a body
// that is malformed, empty or larger than MAX_BODY_BYTES.
func JSON(r *http.Request, dest any) (map[string]string, error) {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes())
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, errors.New("request body is empty")
		default:
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
