package model

import (
	"fmt"
	"net/http"
)

// OutcomeKind classifies the result of a fetch.
type OutcomeKind int

const (
	// OutcomeSuccess is an HTTP 200 response with a readable body.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeHTTPError is any response whose status is not 200.
	OutcomeHTTPError

	// OutcomeNetworkError covers DNS, connection, TLS and body read failures.
	OutcomeNetworkError

	// OutcomeTimeout is a fetch that ran past its deadline.
	OutcomeTimeout
)

// String returns the lower-case name of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// FetchOutcome is the tagged result of fetching one URL.
// Which fields are meaningful depends on Kind:
//   - OutcomeSuccess: StatusCode, Body, ContentType
//   - OutcomeHTTPError: StatusCode
//   - OutcomeNetworkError, OutcomeTimeout: Err
type FetchOutcome struct {
	Kind        OutcomeKind
	StatusCode  int
	Body        string
	ContentType string
	Err         error
}

// Success builds a successful outcome.
func Success(status int, body, contentType string) FetchOutcome {
	return FetchOutcome{
		Kind:        OutcomeSuccess,
		StatusCode:  status,
		Body:        body,
		ContentType: contentType,
	}
}

// HTTPError builds an outcome for a non-200 response.
func HTTPError(status int) FetchOutcome {
	return FetchOutcome{Kind: OutcomeHTTPError, StatusCode: status}
}

// NetworkError builds an outcome for a transport level failure.
func NetworkError(err error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeNetworkError, Err: err}
}

// Timeout builds an outcome for a fetch that exceeded its deadline.
func Timeout(err error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeTimeout, Err: err}
}

// OK reports whether the outcome should be persisted and parsed for links.
func (o FetchOutcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// String describes the outcome for log and progress output.
func (o FetchOutcome) String() string {
	switch o.Kind {
	case OutcomeSuccess:
		return fmt.Sprintf("%d %s (%d bytes)", o.StatusCode, http.StatusText(o.StatusCode), len(o.Body))
	case OutcomeHTTPError:
		return fmt.Sprintf("status %d", o.StatusCode)
	case OutcomeNetworkError, OutcomeTimeout:
		if o.Err != nil {
			return fmt.Sprintf("%s: %v", o.Kind, o.Err)
		}
		return o.Kind.String()
	default:
		return o.Kind.String()
	}
}
