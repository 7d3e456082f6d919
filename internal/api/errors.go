package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
)

// ErrNotAList is returned by List when the server answers with valid JSON that
// is not an array of habits.
var ErrNotAList = errors.New("habit list response is not an array")

// Kind classifies a failed API call.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the single normalized error returned by every client call.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string][]string

	// detail and message as sent by the server, kept for callers that rank
	// them differently
	detail        string
	serverMessage string
	err           error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Hint suggests a followup to the user for kinds where one exists.
func (e *Error) Hint() string {
	switch e.Kind {
	case KindNetwork:
		return "is the server running? use --server or SMARTHABIT_SERVER to point at it"
	case KindAuth:
		return "your session may have expired, run 'smarthabit login' to sign in again"
	default:
		return ""
	}
}

// FirstFieldError returns the first field error in a stable order, "" if none.
func (e *Error) FirstFieldError() string {
	for _, key := range fieldOrder(e.Fields) {
		if msgs := e.Fields[key]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// Classify normalizes any error produced by a client call. Errors that are
// already classified pass through unchanged; anything else is a transport
// failure.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: KindNetwork, Message: err.Error(), err: err}
}

// unknown wraps a local failure that is neither a transport error nor a
// server rejection.
func unknown(msg string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: msg + ": " + err.Error(), err: err}
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && Classify(err).Kind == kind
}

// fromResponse builds the classified error for a non-2xx response body.
func fromResponse(status int, body []byte) *Error {
	e := &Error{Status: status, Fields: map[string][]string{}}

	var raw map[string]json.RawMessage
	if len(body) > 0 && json.Unmarshal(body, &raw) == nil {
		for key, value := range raw {
			switch key {
			case "detail":
				e.detail = decodeText(value)
			case "message":
				e.serverMessage = decodeText(value)
			default:
				if msgs := decodeMessages(value); len(msgs) > 0 {
					e.Fields[key] = msgs
				}
			}
		}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || len(e.Fields) > 0:
		e.Kind = KindValidation
	default:
		e.Kind = KindUnknown
	}

	switch {
	case e.detail != "":
		e.Message = e.detail
	case e.serverMessage != "":
		e.Message = e.serverMessage
	default:
		e.Message = e.FirstFieldError()
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = "request failed"
	}
	return e
}

// fieldOrder ranks keys the way the server's forms surface them: general
// errors first, then the habit form fields, then the rest alphabetically.
func fieldOrder(fields map[string][]string) []string {
	priority := []string{"non_field_errors", "name", "tag"}
	keys := make([]string, 0, len(fields))
	for _, p := range priority {
		if _, ok := fields[p]; ok {
			keys = append(keys, p)
		}
	}
	rest := make([]string, 0, len(fields))
	for key := range fields {
		if key != "non_field_errors" && key != "name" && key != "tag" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func decodeText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	if msgs := decodeMessages(raw); len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func decodeMessages(raw json.RawMessage) []string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		return []string{s}
	}
	return nil
}
