package util

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrEmptyBase64 = errors.New("empty base64 payload")

// StripDataURL removes a "data:<mime>;base64," prefix and returns the payload
// together with the declared mime type (empty when there was no prefix).
func StripDataURL(s string) (payload, mime string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return s, ""
	}
	head, body, ok := strings.Cut(s, ",")
	if !ok {
		return s, ""
	}
	mime = strings.TrimPrefix(head, "data:")
	mime, _, _ = strings.Cut(mime, ";")
	return body, mime
}

// DecodeBase64 decodes a standard base64 payload, tolerating a data URL
// prefix, embedded whitespace and missing padding.
func DecodeBase64(s string) ([]byte, error) {
	payload, _ := StripDataURL(s)
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return nil, ErrEmptyBase64
	}
	if strings.HasSuffix(payload, "=") || len(payload)%4 == 0 {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
