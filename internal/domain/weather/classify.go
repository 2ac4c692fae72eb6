package weather

import (
	"net/http"

	apperrors "github.com/yanqian/weather-gateway/pkg/errors"
)

// ErrorKind is the gateway-facing error taxonomy. It doubles as the AppError code.
type ErrorKind string

const (
	KindBadRequest          ErrorKind = "bad_request"
	KindNotFound            ErrorKind = "not_found"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindQuotaExceeded       ErrorKind = "quota_exceeded"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
)

// Messages surfaced in error bodies.
const (
	MsgCityNotFound        = "City not found"
	MsgInvalidAPIKey       = "Invalid API key"
	MsgQuotaExceeded       = "API quota exceeded"
	MsgFetchFailed         = "Failed to fetch weather data"
	MsgForecastFetchFailed = "Failed to fetch forecast data"
	MsgAPIKeyNotConfigured = "Weather API key not configured"
)

type classifyRule struct {
	match   func(UpstreamFailure) bool
	kind    ErrorKind
	message string

	// fallback rules take their message from the calling operation.
	fallback bool
}

// classifyRules is evaluated top to bottom; the last rule matches everything.
var classifyRules = []classifyRule{
	{match: outcomeIs(OutcomeMissingCredential), kind: KindUpstreamUnavailable, message: MsgAPIKeyNotConfigured},
	{match: respondedWith(http.StatusBadRequest), kind: KindNotFound, message: MsgCityNotFound},
	{match: respondedWith(http.StatusUnauthorized), kind: KindUnauthorized, message: MsgInvalidAPIKey},
	{match: respondedWith(http.StatusForbidden), kind: KindQuotaExceeded, message: MsgQuotaExceeded},
	{match: func(UpstreamFailure) bool { return true }, kind: KindUpstreamUnavailable, fallback: true},
}

func outcomeIs(o Outcome) func(UpstreamFailure) bool {
	return func(f UpstreamFailure) bool { return f.Outcome == o }
}

func respondedWith(status int) func(UpstreamFailure) bool {
	return func(f UpstreamFailure) bool {
		return f.Outcome == OutcomeResponded && f.Status == status
	}
}

func lookup(f UpstreamFailure) classifyRule {
	for _, rule := range classifyRules {
		if rule.match(f) {
			return rule
		}
	}
	return classifyRules[len(classifyRules)-1]
}

// Classify maps an upstream failure to its gateway error kind.
func Classify(f UpstreamFailure) ErrorKind {
	return lookup(f).kind
}

// ClassifyError converts any upstream error from a current-conditions lookup
// into a gateway error carrying the kind as its code. The original failure
// stays reachable through Unwrap.
func ClassifyError(err error) error {
	return classifyWith(err, MsgFetchFailed)
}

// ClassifyForecastError is ClassifyError for forecast lookups.
func ClassifyForecastError(err error) error {
	return classifyWith(err, MsgForecastFetchFailed)
}

func classifyWith(err error, fallbackMessage string) error {
	rule := lookup(AsUpstreamFailure(err))
	message := rule.message
	if rule.fallback {
		message = fallbackMessage
	}
	return apperrors.Wrap(string(rule.kind), message, err)
}

// KindOf reports the gateway kind of err, defaulting to KindUpstreamUnavailable.
func KindOf(err error) ErrorKind {
	if code := apperrors.CodeOf(err); code != "" {
		return ErrorKind(code)
	}
	return KindUpstreamUnavailable
}
