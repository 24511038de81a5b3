package notify

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/petalert/internal/client/client"
	"github.com/dmitrijs2005/petalert/internal/common"
)

// Kind is the failure taxonomy used to decide what the user is told.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: client-side input check failed, nothing was sent.
	KindValidation
	// KindAuth: credentials or token rejected, or no session.
	KindAuth
	// KindTransport: no structured response from the server.
	KindTransport
	// KindServer: structured failure payload.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// SignInRequiredMessage is shown when a protected action runs without a session.
const SignInRequiredMessage = "Please sign in to continue."

// Classify maps err onto the failure taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, common.ErrValidation) {
		return KindValidation
	}
	if errors.Is(err, common.ErrNotLoggedIn) {
		return KindAuth
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.IsUnauthorized() {
			return KindAuth
		}
		return KindServer
	}
	if errors.Is(err, client.ErrUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	return KindUnknown
}

// MessageFor returns the text to show the user for err: the validation
// message for client-side input errors, the server's message when the
// response carried one, and GenericErrorMessage otherwise.
func MessageFor(err error) string {
	switch Classify(err) {
	case KindValidation:
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return ve.Error()
		}
	case KindAuth, KindServer:
		if errors.Is(err, common.ErrNotLoggedIn) {
			return SignInRequiredMessage
		}
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return common.GenericErrorMessage
}
