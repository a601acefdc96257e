package domain

import "errors"

// ErrorKind classifies a failed relay call
type ErrorKind int

const (
	// KindUnknown is reported for errors that were never classified
	KindUnknown ErrorKind = iota
	// KindInput is a missing, unreadable or malformed request
	KindInput
	// KindUpstream is any failure reported by the model provider or the network
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// RelayError carries the kind of failure next to its cause.
// Error returns the cause's message unchanged so callers see the original text.
type RelayError struct {
	Kind ErrorKind
	Err  error
}

func (e *RelayError) Error() string {
	return e.Err.Error()
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// InputError marks err as caused by the request
func InputError(err error) error {
	if err == nil {
		return nil
	}
	return &RelayError{Kind: KindInput, Err: err}
}

// UpstreamError marks err as caused by the model provider
func UpstreamError(err error) error {
	if err == nil {
		return nil
	}
	return &RelayError{Kind: KindUpstream, Err: err}
}

// KindOf returns the kind of the first RelayError in err's chain
func KindOf(err error) ErrorKind {
	var re *RelayError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}
