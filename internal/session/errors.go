package session

import (
	"errors"

	"github.com/HMTking/greenify/pkg/plantapi"
)

// GenericFailure is shown when the exchange failed without a usable
// explanation from the server.
const GenericFailure = "Sorry, something went wrong. Please try again."

// Guard rejections. Submitting is a no-op when either is returned.
var (
	ErrEmpty    = errors.New("nothing to send")
	ErrInFlight = errors.New("a message is already being sent")
)

// errEmptyReply stands in for a transport that returned neither a reply nor
// an error.
var errEmptyReply = errors.New("empty reply")

// IsGuardRejection reports whether err means the submission was ignored.
func IsGuardRejection(err error) bool {
	return errors.Is(err, ErrEmpty) || errors.Is(err, ErrInFlight)
}

// FailureText maps a failed exchange to the text of an Error message. A
// message reported by the server is used verbatim.
func FailureText(err error) string {
	var apiErr *plantapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericFailure
}
