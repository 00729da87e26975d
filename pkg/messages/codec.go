package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// NegotiateContentType picks the encoding for a response from an Accept header.
// Anything that does not ask for msgpack gets JSON.
func NegotiateContentType(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType == ContentTypeMsgpack || mediaType == "application/x-msgpack" {
			return ContentTypeMsgpack
		}
	}
	return ContentTypeJSON
}

// Encode serializes v for the given content type.
func Encode(contentType string, v interface{}) ([]byte, error) {
	switch contentType {
	case ContentTypeMsgpack:
		buf := &bytes.Buffer{}
		enc := msgpack.NewEncoder(buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode msgpack: %v", err)
		}
		return buf.Bytes(), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %v", err)
		}
		return b, nil
	}
}

// Decode reads one value of the given content type from r into v.
func Decode(contentType string, r io.Reader, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ContentTypeJSON
	}
	switch mediaType {
	case ContentTypeMsgpack, "application/x-msgpack":
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to decode msgpack: %v", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("failed to decode json: %v", err)
		}
	}
	return nil
}
