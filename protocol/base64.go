package protocol

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// DecodeBase64URL decodes a URL-safe base64 payload (alphabet A-Z a-z 0-9 - _)
// into a UTF-8 string. Padding is tolerated but not required. A payload that
// fails to decode, or decodes to invalid UTF-8, is an encoding error.
func DecodeBase64URL(payload string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(trimPadding(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}

	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrInvalidEncoding)
	}

	return string(decoded), nil
}

// EncodeBase64URL is the inverse of DecodeBase64URL, emitting the unpadded
// URL-safe alphabet browsers userscripts produce.
func EncodeBase64URL(value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value))
}

func trimPadding(payload string) string {
	for len(payload) > 0 && payload[len(payload)-1] == '=' {
		payload = payload[:len(payload)-1]
	}
	return payload
}
