package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
)

const (
	// maxFormMemory bounds in-memory multipart parsing (10MB)
	maxFormMemory = 10 << 20
	// maxImageSize is the upload cap for one image file (5MB)
	maxImageSize = 5 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// parseMultipart parses the request's multipart form. Mutation routes
// always carry multipart bodies so the distributors list and an image
// file can travel together.
func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return apperr.Validation("invalid multipart form")
	}
	return nil
}

func formValue(r *http.Request, key string) string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return ""
	}
	return values[0]
}

// formStringPtr returns nil when the field was not sent at all,
// distinguishing "leave unchanged" from "set to empty".
func formStringPtr(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formBool(r *http.Request, key string) (bool, error) {
	raw := formValue(r, key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.Validation("%s must be a boolean", key)
	}
	return v, nil
}

func formBoolPtr(r *http.Request, key string) (*bool, error) {
	raw := formStringPtr(r, key)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseBool(*raw)
	if err != nil {
		return nil, apperr.Validation("%s must be a boolean", key)
	}
	return &v, nil
}

func formFloatPtr(r *http.Request, key string) (*float64, error) {
	raw := formStringPtr(r, key)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, apperr.Validation("%s must be a number", key)
	}
	return &v, nil
}

// formIDList decodes a JSON-encoded array of ids from a form field.
// Multipart forms cannot carry structured arrays natively, so the list
// travels as JSON text. Malformed JSON is a validation error before any
// write happens.
func formIDList(r *http.Request, key string) ([]string, error) {
	raw := formStringPtr(r, key)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(*raw), &ids); err != nil {
		return nil, apperr.Validation("%s must be a JSON array of ids", key)
	}
	return ids, nil
}

// formIDListPtr is the patch variant: nil means the field was absent.
func formIDListPtr(r *http.Request, key string) (*[]string, error) {
	raw := formStringPtr(r, key)
	if raw == nil {
		return nil, nil
	}
	ids := []string{}
	if *raw != "" {
		if err := json.Unmarshal([]byte(*raw), &ids); err != nil {
			return nil, apperr.Validation("%s must be a JSON array of ids", key)
		}
	}
	return &ids, nil
}

// formImage returns the optional image file, enforcing the size cap and
// allowed content types.
func formImage(r *http.Request) (*multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return nil, nil
	}
	fileHeader := r.MultipartForm.File["image"][0]

	if fileHeader.Size > maxImageSize {
		return nil, apperr.Validation("image must be at most 5MB")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return nil, apperr.Validation("image must be jpeg, png, or webp")
	}
	return fileHeader, nil
}
