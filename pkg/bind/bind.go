// Package bind decodes an HTTP request body into a struct and runs the
// tag-based validation rules from pkg/validate.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nikhilrana/saman/config"
	"github.com/nikhilrana/saman/pkg/validate"
)

// maxBodyBytes returns the request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

// JSON decodes r.Body into dest and validates it.
// Returns (errs, nil) on validation failure and (nil, err) on malformed or
// oversized bodies.
func JSON(r *http.Request, dest interface{}) (validate.Errors, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); errs.Any() {
		return errs, nil
	}
	return nil, nil
}
