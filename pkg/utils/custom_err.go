package utils

import "errors"

var (
	ErrMissingParameter     = errors.New("missing required parameter")
	ErrMissingSignature     = errors.New("missing stripe signature")
	ErrInvalidSignature     = errors.New("invalid stripe signature")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingCorrelationID = errors.New("missing song_id in payment metadata")

	ErrInvalidOrExpiredToken = errors.New("invalid or expired download token")

	ErrRecordNotFound = errors.New("payment record not found")

	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUpdateFailed       = errors.New("payment update failed")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

type ErrorKind string

const (
	KindClientInput   ErrorKind = "client_input"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindDependency    ErrorKind = "dependency"
	KindUnexpected    ErrorKind = "unexpected"
)

func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingParameter),
		errors.Is(err, ErrMissingSignature),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrMalformedPayload),
		errors.Is(err, ErrMissingCorrelationID):
		return KindClientInput
	case errors.Is(err, ErrInvalidOrExpiredToken):
		return KindAuthorization
	case errors.Is(err, ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, ErrStorageUnavailable),
		errors.Is(err, ErrUpdateFailed),
		errors.Is(err, ErrStoreUnavailable):
		return KindDependency
	default:
		return KindUnexpected
	}
}
