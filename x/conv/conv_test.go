package conv

import "testing"

func TestAppendUint(t *testing.T) {
	cases := map[uint64]string{
		0:           "0",
		7:           "7",
		80000000:    "80000000",
		18446744073: "18446744073",
	}
	for n, want := range cases {
		if got := string(AppendUint([]byte("x="), n)); got != "x="+want {
			t.Fatalf("AppendUint(%d) = %q", n, got)
		}
		if Utoa(n) != want {
			t.Fatalf("Utoa(%d) = %q", n, Utoa(n))
		}
	}
}

func TestParseUint(t *testing.T) {
	good := map[string]uint32{"0": 0, "160000000": 160000000, "4294967295": 4294967295}
	for in, want := range good {
		got, ok := ParseUint([]byte(in))
		if !ok || got != want {
			t.Fatalf("ParseUint(%q) = %d,%v", in, got, ok)
		}
	}
	for _, in := range []string{"", "12a", "-1", "4294967296"} {
		if _, ok := ParseUint([]byte(in)); ok {
			t.Fatalf("ParseUint(%q) should fail", in)
		}
	}
}

func TestHex32(t *testing.T) {
	if got := Hex32(0x40021000); got != "0x40021000" {
		t.Fatalf("Hex32 = %q", got)
	}
	if got := Hex32(0xA); got != "0x0000000A" {
		t.Fatalf("Hex32 = %q", got)
	}
}
