package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrInvalidBody  = errors.New("invalid request body")
	ErrBodyTooLarge = errors.New("request body too large")
)

// DecodeJSON decodes the request body into v. Failures wrap ErrInvalidBody
// or ErrBodyTooLarge.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return BodyError(err)
	}
	return nil
}

// BodyError classifies an error from reading or parsing a request body.
func BodyError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: empty body", ErrInvalidBody)
	case errors.Is(err, ErrInvalidBody), errors.Is(err, ErrBodyTooLarge):
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}

// WriteBodyError writes 413 for oversized bodies and 400 for everything else.
func WriteBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		JSONErrorKind(w, http.StatusRequestEntityTooLarge, "too_large", err.Error(), nil)
		return
	}
	JSONErrorKind(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
}
