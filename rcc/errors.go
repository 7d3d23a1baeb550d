package rcc

import (
	"stm32l4hal/errcode"
	"stm32l4hal/x/conv"
)

var (
	// ErrConsumed is returned when a Config is committed a second time.
	ErrConsumed error = errcode.ConfigConsumed
	// ErrFrozen is returned when clocks were already frozen on this RCC.
	ErrFrozen error = errcode.ClocksFrozen
	// ErrWrongBus is returned when a gate is asked to clock a peripheral
	// that hangs off another bus.
	ErrWrongBus error = errcode.WrongBus
)

// StartupTimeoutError reports an oscillator, the PLL or the system clock
// switch that did not acknowledge within the polling budget.
type StartupTimeoutError struct {
	Source Source
	Polls  uint32
}

func (e *StartupTimeoutError) Error() string {
	b := append([]byte(errcode.ClockStartupTimeout), ": "...)
	b = append(b, e.Source.String()...)
	b = append(b, " not ready after "...)
	b = conv.AppendUint(b, uint64(e.Polls))
	b = append(b, " polls"...)
	return string(b)
}

func (e *StartupTimeoutError) Code() errcode.Code { return errcode.ClockStartupTimeout }

// ConfigError reports a requested setting that falls outside what the part
// supports. It is always returned before the offending register is written.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return string(errcode.InvalidClockConfig) + ": " + e.Field + ": " + e.Reason
}

func (e *ConfigError) Code() errcode.Code { return errcode.InvalidClockConfig }

func invalid(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// exceeds renders "<what> <got> Hz exceeds <max> Hz".
func exceeds(what string, got, max uint64) string {
	b := append([]byte(what), ' ')
	b = conv.AppendUint(b, got)
	b = append(b, " Hz exceeds "...)
	b = conv.AppendUint(b, max)
	return string(append(b, " Hz"...))
}

// outside renders "<what> <got> Hz outside <lo>..<hi> Hz".
func outside(what string, got, lo, hi uint64) string {
	b := append([]byte(what), ' ')
	b = conv.AppendUint(b, got)
	b = append(b, " Hz outside "...)
	b = conv.AppendUint(b, lo)
	b = append(b, ".."...)
	b = conv.AppendUint(b, hi)
	return string(append(b, " Hz"...))
}

// notIn renders "<got> not in <set>" for divider tables.
func notIn(got uint32, set []uint32) string {
	b := conv.AppendUint(nil, uint64(got))
	b = append(b, " not in {"...)
	for i, s := range set {
		if i > 0 {
			b = append(b, ',')
		}
		b = conv.AppendUint(b, uint64(s))
	}
	return string(append(b, '}'))
}

// notInRange renders "<got> not in <lo>..<hi>".
func notInRange(got, lo, hi uint32) string {
	b := conv.AppendUint(nil, uint64(got))
	b = append(b, " not in "...)
	b = conv.AppendUint(b, uint64(lo))
	b = append(b, ".."...)
	b = conv.AppendUint(b, uint64(hi))
	return string(b)
}
