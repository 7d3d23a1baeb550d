package errcode

// Code is a stable error identifier shared by the clock and ownership layers.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"

	ClockStartupTimeout Code = "clock_startup_timeout"
	InvalidClockConfig  Code = "invalid_clock_configuration"
	ConfigConsumed      Code = "config_consumed"
	ClocksFrozen        Code = "clocks_frozen"
	WrongBus            Code = "wrong_bus"
	Malformed           Code = "malformed"
	Mismatch            Code = "mismatch"
	Timeout             Code = "timeout"

	Error Code = "error" // generic fallback
)

// E wraps a Code when the caller wants to keep an operation name and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
// Wrapped errors are unwrapped until a Code or a coder is found.
func Of(err error) Code {
	for err != nil {
		if c, ok := err.(Code); ok {
			return c
		}
		type coder interface{ Code() Code }
		if x, ok := err.(coder); ok {
			return x.Code()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return Error
		}
		err = u.Unwrap()
	}
	return OK
}
