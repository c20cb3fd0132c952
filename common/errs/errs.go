package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("not found")

	// InvalidArgument is returned when the caller supplied malformed input
	// (out-of-bounds coordinates, bad color format, bad address).
	InvalidArgument = ErrorKind("invalid argument")

	// Forbidden is returned when the wallet is banned or the caller lacks
	// administrative rights.
	Forbidden = ErrorKind("forbidden")

	// RateLimited is returned when the wallet is still inside its tier cooldown.
	RateLimited = ErrorKind("rate limited")

	// Protected is returned when the target pixel is inside another wallet's
	// protection window.
	Protected = ErrorKind("protected")

	// InvalidSignature is returned when a webhook payload fails HMAC verification.
	InvalidSignature = ErrorKind("invalid signature")

	// Unavailable is returned when an upstream dependency (balance oracle,
	// durable store) cannot be reached.
	Unavailable = ErrorKind("unavailable")

	// Unsupported is returned for unsupported configuration values.
	Unsupported = ErrorKind("unsupported")

	// InternalError is returned for unexpected internal failures.
	InternalError = ErrorKind("internal error")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
