package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ghuser/possystem/pkg/httpx"
	appsvcs "github.com/ghuser/possystem/services/catalog/application/services"
)

const maxUploadMemory = 8 << 20

// productFields are the text fields a product form may carry. recipe holds
// a JSON array; isActive accepts "true" or "1".
var productFields = []string{"name", "price", "category", "recipe", "isActive"}

// decodeProduct reads a product request from a JSON body or a multipart form
// with an optional "image" file. The returned closer releases the upload.
func decodeProduct[T any](r *http.Request) (*T, *appsvcs.ImageUpload, io.Closer, error) {
	var req T
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, nil, nil, err
		}
		return &req, nil, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, nil, httpx.BodyError(err)
	}
	fields := make(map[string]any, len(productFields))
	for _, name := range productFields {
		values, ok := r.MultipartForm.Value[name]
		if !ok || len(values) == 0 {
			continue
		}
		v := values[0]
		switch name {
		case "recipe":
			if strings.TrimSpace(v) == "" {
				continue
			}
			if !json.Valid([]byte(v)) {
				return nil, nil, nil, fmt.Errorf("%w: recipe must be a JSON array", httpx.ErrInvalidBody)
			}
			fields[name] = json.RawMessage(v)
		case "isActive":
			fields[name] = v == "true" || v == "1"
		default:
			fields[name] = v
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, nil, nil, httpx.BodyError(err)
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return &req, nil, nil, nil
	case err != nil:
		return nil, nil, nil, httpx.BodyError(fmt.Errorf("read image: %w", err))
	}
	return &req, &appsvcs.ImageUpload{ContentType: contentType(header), Body: file}, file, nil
}

func contentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
