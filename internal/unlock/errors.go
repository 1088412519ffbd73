package unlock

import "errors"

var (
	// ErrMissingCode is returned when an unlock code is blank.
	ErrMissingCode = errors.New("missing_code")
	// ErrInvalidCode is returned when an unlock code matches nothing configured.
	ErrInvalidCode = errors.New("invalid_code")
	// ErrMissingTrackingID is returned when a postback or status call has no id.
	ErrMissingTrackingID = errors.New("missing_subid")
	// ErrMissingToken is returned when an export requires an unlock token and none was sent.
	ErrMissingToken = errors.New("missing unlock token")
	// ErrInvalidToken is returned for expired, tampered or malformed tokens.
	ErrInvalidToken = errors.New("invalid unlock token")
	// ErrTokensDisabled is returned when no token secret is configured.
	ErrTokensDisabled = errors.New("unlock tokens are not configured")
)
