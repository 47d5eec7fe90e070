package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize matches the API body limit (10MB).
const DefaultMaxJSONSize int64 = 10 << 20

type jsonConfig struct {
	maxSize       int64
	strict        bool
	allowEmpty    bool
	requireHeader bool
}

type JSONOption func(*jsonConfig)

// WithMaxSize overrides DefaultMaxJSONSize.
func WithMaxSize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithStrict rejects unknown fields.
func WithStrict() JSONOption {
	return func(c *jsonConfig) { c.strict = true }
}

// WithAllowEmpty leaves v untouched when the body is empty instead of
// returning ErrEmptyBody.
func WithAllowEmpty() JSONOption {
	return func(c *jsonConfig) { c.allowEmpty = true }
}

// WithoutContentTypeCheck accepts bodies without an application/json
// Content-Type header.
func WithoutContentTypeCheck() JSONOption {
	return func(c *jsonConfig) { c.requireHeader = false }
}

// JSON decodes a single JSON value from the request body into v.
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := &jsonConfig{maxSize: DefaultMaxJSONSize, requireHeader: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return errors.Join(ErrFailedToParseJSON, err)
		}

		if cfg.requireHeader {
			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				if r.ContentLength == 0 && cfg.allowEmpty {
					return nil
				}
				return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
			}
			mediaType, _, err := mime.ParseMediaType(contentType)
			if err != nil || mediaType != "application/json" {
				return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, contentType)
			}
		}

		if r.Body == nil || r.Body == http.NoBody {
			if cfg.allowEmpty {
				return nil
			}
			return ErrEmptyBody
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return errors.Join(ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, cfg.maxSize)
		}
		if len(body) == 0 {
			if cfg.allowEmpty {
				return nil
			}
			return ErrEmptyBody
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		if cfg.strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
		}

		return nil
	}
}
