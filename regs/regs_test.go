package regs

import "testing"

func TestFieldEncoding(t *testing.T) {
	hpre := Field{Pos: 4, Width: 4}
	if hpre.Mask() != 0xF0 {
		t.Fatalf("mask = %#x", hpre.Mask())
	}
	if hpre.Bits(0x1F) != 0xF0 {
		t.Fatalf("bits should drop overflow, got %#x", hpre.Bits(0x1F))
	}
	if hpre.Extract(0xA5) != 0xA {
		t.Fatalf("extract = %#x", hpre.Extract(0xA5))
	}
	if (Field{Width: 32}).Mask() != 0xFFFFFFFF {
		t.Fatal("full-width mask")
	}
}

func TestFakeRecordsAccesses(t *testing.T) {
	f := NewFake()
	const cr = 0x40021000
	f.Label(cr, "RCC_CR")
	f.Poke(cr, 0x63)
	r := f.Reg(cr)

	SetBits(r, 1<<16)
	if !HasBits(r, 1<<16) {
		t.Fatal("bit not set")
	}
	ClearBits(r, 1<<0)
	ReplaceBits(r, 0xB, 0xF, 4)
	(Field{Pos: 8, Width: 1}).Set(r, 1)

	if got := f.Peek(cr); got != 0x101B2 {
		t.Fatalf("value = %#x", got)
	}
	if n := len(f.Writes(cr)); n != 4 {
		t.Fatalf("writes = %d, want 4", n)
	}
	// SetBits, HasBits, ClearBits, ReplaceBits and Field.Set each read once.
	if n := f.Reads(cr); n != 5 {
		t.Fatalf("reads = %d, want 5", n)
	}
	tr := f.Trace()
	if len(tr) != 4 || tr[0] != "RCC_CR <- 0x00010063" {
		t.Fatalf("trace = %q", tr)
	}
	f.ResetLog()
	if len(f.Log()) != 0 || f.Peek(cr) == 0 {
		t.Fatal("ResetLog must keep values and drop the log")
	}
}

func TestFakeHooks(t *testing.T) {
	f := NewFake()
	const ctl, sts = 0x10, 0x14
	f.OnWrite(ctl, func(v uint32) {
		if v&1 != 0 {
			f.Poke(sts, 1)
		}
	})
	polls := 0
	f.OnRead(sts, func(v uint32) uint32 {
		polls++
		return v
	})
	f.Reg(ctl).Set(1)
	if f.Reg(sts).Get() != 1 || polls != 1 {
		t.Fatal("hooks did not run")
	}
	if f.Name(0x20) != "0x00000020" {
		t.Fatalf("unlabelled name = %q", f.Name(0x20))
	}
}
