package weather

import (
	"errors"
	"fmt"
)

// Outcome tags how an upstream call failed.
type Outcome int

const (
	// OutcomeResponded means the provider answered with a non-success status.
	OutcomeResponded Outcome = iota + 1
	// OutcomeNoResponse covers timeouts, DNS failures and refused connections.
	OutcomeNoResponse
	// OutcomeMissingCredential means the call was never attempted.
	OutcomeMissingCredential
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResponded:
		return "responded"
	case OutcomeNoResponse:
		return "no_response"
	case OutcomeMissingCredential:
		return "missing_credential"
	default:
		return "unknown"
	}
}

// UpstreamFailure is returned by UpstreamClient implementations. Status is only
// meaningful when Outcome is OutcomeResponded.
type UpstreamFailure struct {
	Outcome Outcome
	Status  int
	Err     error
}

// Responded builds a failure for a provider reply with the given status.
func Responded(status int) *UpstreamFailure {
	return &UpstreamFailure{Outcome: OutcomeResponded, Status: status}
}

// NoResponse builds a failure for a network level error.
func NoResponse(err error) *UpstreamFailure {
	return &UpstreamFailure{Outcome: OutcomeNoResponse, Err: err}
}

// MissingCredential builds the pre-flight failure used when no API key is configured.
func MissingCredential() *UpstreamFailure {
	return &UpstreamFailure{Outcome: OutcomeMissingCredential}
}

func (f *UpstreamFailure) Error() string {
	switch f.Outcome {
	case OutcomeResponded:
		return fmt.Sprintf("upstream responded with status %d", f.Status)
	case OutcomeNoResponse:
		if f.Err != nil {
			return "upstream unreachable: " + f.Err.Error()
		}
		return "upstream unreachable"
	case OutcomeMissingCredential:
		return "upstream credential not configured"
	default:
		return "upstream failure"
	}
}

func (f *UpstreamFailure) Unwrap() error {
	return f.Err
}

// AsUpstreamFailure extracts an UpstreamFailure from err. Errors of any other
// shape are treated as a missing response.
func AsUpstreamFailure(err error) UpstreamFailure {
	var failure *UpstreamFailure
	if errors.As(err, &failure) && failure != nil {
		return *failure
	}
	return UpstreamFailure{Outcome: OutcomeNoResponse, Err: err}
}
