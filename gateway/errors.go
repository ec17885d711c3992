package gateway

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrConnection marks a request that never completed (dial, DNS, reset).
	ErrConnection = errors.New("gateway: connection failed")
	// ErrUnauthenticated marks a 401 on a call that carried a token.
	ErrUnauthenticated = errors.New("gateway: not authenticated")
	// ErrDecode marks a 2xx response whose body is not the expected JSON.
	ErrDecode = errors.New("gateway: invalid response body")
)

// HTTPError is a non-2xx answer from a service. Detail is the server supplied message, if any.
type HTTPError struct {
	Service string
	Status  int
	Detail  string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gateway: %s returned %d", e.Service, e.Status)
	}
	return fmt.Sprintf("gateway: %s returned %d: %s", e.Service, e.Status, e.Detail)
}

// Detail returns the server message carried by err, or "" when err is not an HTTP failure.
func Detail(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Detail
	}
	return ""
}

// IsConnection reports whether err is a transport failure.
func IsConnection(err error) bool { return errors.Is(err, ErrConnection) }

// IsUnauthenticated reports whether err means the stored token was rejected.
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }

const maxDetailLen = 300

// detailFrom pulls a human message out of an error body.
// FastAPI sends {"detail": "..."} or {"detail": [{"msg": ...}]}; the gateway wraps plain text as detail.
func detailFrom(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if !gjson.ValidBytes(raw) {
		return clip(string(raw))
	}

	res := gjson.ParseBytes(raw)
	if res.Type == gjson.String {
		return clip(res.String())
	}

	if d := res.Get("detail"); d.Exists() {
		switch {
		case d.Type == gjson.String:
			return d.String()
		case d.IsArray():
			var msgs []string
			for _, m := range d.Get("#.msg").Array() {
				if s := m.String(); s != "" {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		case d.IsObject():
			if m := d.Get("message"); m.Exists() {
				return m.String()
			}
		}
	}
	for _, k := range []string{"error", "message", "error.message"} {
		if v := res.Get(k); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxDetailLen {
		return s[:maxDetailLen]
	}
	return s
}
