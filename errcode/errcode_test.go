package errcode

import (
	"errors"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":                          OK,
		"clock_startup_timeout":       ClockStartupTimeout,
		"invalid_clock_configuration": InvalidClockConfig,
		"config_consumed":             ConfigConsumed,
		"clocks_frozen":               ClocksFrozen,
		"wrong_bus":                   WrongBus,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil error should map to ok")
	}
	if Of(WrongBus) != WrongBus {
		t.Fatal("bare code not extracted")
	}
	e := &E{C: InvalidParams, Op: "config.Parse", Msg: "bad chip"}
	if Of(e) != InvalidParams {
		t.Fatalf("coder not extracted: %v", Of(e))
	}
	if e.Error() != "config.Parse: invalid_params: bad chip" {
		t.Fatalf("unexpected message %q", e.Error())
	}
	wrapped := errors.Join(errors.New("context"), ClocksFrozen)
	if Of(wrapped) != Error {
		t.Fatalf("joined errors have no single code, got %v", Of(wrapped))
	}
	if Of(&E{C: Mismatch, Err: ClockStartupTimeout}) != Mismatch {
		t.Fatal("outer code must win")
	}
	if Of(errors.New("plain")) != Error {
		t.Fatal("plain error should map to generic code")
	}
}
