package als

import "github.com/pkg/errors"

// Kind classifies an encoder failure per the taxonomy in the core's error
// handling design: configuration and memory failures are fatal at init,
// arithmetic overflow is recoverable by a fallback predictor, and bitstream
// overflow fails only the current frame.
type Kind int

const (
	// KindConfiguration marks an unsupported sample format or out-of-range
	// stream parameter, fatal at init.
	KindConfiguration Kind = iota
	// KindMemory marks a buffer allocation failure.
	KindMemory
	// KindArithmetic marks a PARCOR-to-LPC overflow; callers see this only
	// if the built-in fallback predictor itself failed to recover.
	KindArithmetic
	// KindBitstream marks a write-buffer exhaustion; the frame is discarded.
	KindBitstream
	// KindHeader marks a failure writing or rewriting the stream header,
	// or a header buffer too short to patch.
	KindHeader
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindMemory:
		return "memory"
	case KindArithmetic:
		return "arithmetic"
	case KindBitstream:
		return "bitstream"
	case KindHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by the encoder.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Kind.String() + ": " + e.msg + ": " + e.err.Error()
	}
	return e.Kind.String() + ": " + e.msg
}

func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

func wrapError(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, msg: msg, err: errors.WithStack(err)}
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		err = errors.Unwrap(err)
	}
	return e != nil && e.Kind == k
}
