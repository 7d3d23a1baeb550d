package regs

import (
	"sync"

	"stm32l4hal/x/conv"
)

// Op is the kind of a recorded register access.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "W"
	}
	return "R"
}

// Access is one recorded register access.
type Access struct {
	Op    Op
	Addr  uintptr
	Value uint32
}

// Fake is an in-memory Bank that records every access made through the
// registers it hands out. Hardware behaviour is simulated with hooks and
// with Poke, which changes a value without being recorded.
//
// Unwritten registers read as zero unless Poke'd first.
type Fake struct {
	mu      sync.Mutex
	vals    map[uintptr]uint32
	labels  map[uintptr]string
	onWrite map[uintptr]func(v uint32)
	onRead  map[uintptr]func(v uint32) uint32
	log     []Access
}

func NewFake() *Fake {
	return &Fake{
		vals:    make(map[uintptr]uint32),
		labels:  make(map[uintptr]string),
		onWrite: make(map[uintptr]func(uint32)),
		onRead:  make(map[uintptr]func(uint32) uint32),
	}
}

type fakeReg struct {
	f    *Fake
	addr uintptr
}

func (r fakeReg) Get() uint32 { return r.f.read(r.addr) }
func (r fakeReg) Set(v uint32) { r.f.write(r.addr, v) }

// Reg implements Bank.
func (f *Fake) Reg(addr uintptr) Register32 { return fakeReg{f: f, addr: addr} }

func (f *Fake) read(addr uintptr) uint32 {
	f.mu.Lock()
	v := f.vals[addr]
	hook := f.onRead[addr]
	f.mu.Unlock()
	// Hooks run unlocked so they may Poke.
	if hook != nil {
		v = hook(v)
	}
	f.mu.Lock()
	f.log = append(f.log, Access{Op: OpRead, Addr: addr, Value: v})
	f.mu.Unlock()
	return v
}

func (f *Fake) write(addr uintptr, v uint32) {
	f.mu.Lock()
	f.vals[addr] = v
	f.log = append(f.log, Access{Op: OpWrite, Addr: addr, Value: v})
	hook := f.onWrite[addr]
	f.mu.Unlock()
	if hook != nil {
		hook(v)
	}
}

// Poke sets a register value from the hardware side. It is not recorded.
func (f *Fake) Poke(addr uintptr, v uint32) {
	f.mu.Lock()
	f.vals[addr] = v
	f.mu.Unlock()
}

// Peek returns the current value without recording a read.
func (f *Fake) Peek(addr uintptr) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vals[addr]
}

// OnWrite installs a hook run after every recorded write to addr.
func (f *Fake) OnWrite(addr uintptr, fn func(v uint32)) {
	f.mu.Lock()
	f.onWrite[addr] = fn
	f.mu.Unlock()
}

// OnRead installs a hook that may alter the value returned by a read of addr.
// The returned value is what the reader sees and what gets recorded.
func (f *Fake) OnRead(addr uintptr, fn func(v uint32) uint32) {
	f.mu.Lock()
	f.onRead[addr] = fn
	f.mu.Unlock()
}

// Label names addr in traces.
func (f *Fake) Label(addr uintptr, name string) {
	f.mu.Lock()
	f.labels[addr] = name
	f.mu.Unlock()
}

// Log returns a copy of every access recorded so far.
func (f *Fake) Log() []Access {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Access(nil), f.log...)
}

// ResetLog forgets recorded accesses; register values are kept.
func (f *Fake) ResetLog() {
	f.mu.Lock()
	f.log = f.log[:0]
	f.mu.Unlock()
}

// Writes returns the values written to addr, in order.
func (f *Fake) Writes(addr uintptr) []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint32
	for _, a := range f.log {
		if a.Op == OpWrite && a.Addr == addr {
			out = append(out, a.Value)
		}
	}
	return out
}

// Reads counts recorded reads of addr.
func (f *Fake) Reads(addr uintptr) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.log {
		if a.Op == OpRead && a.Addr == addr {
			n++
		}
	}
	return n
}

// Name returns the label of addr, or its hex address when unlabelled.
func (f *Fake) Name(addr uintptr) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.labels[addr]; ok {
		return s
	}
	return conv.Hex32(uint32(addr))
}

// Trace renders the recorded writes as "NAME <- 0xVALUE" lines.
func (f *Fake) Trace() []string {
	var out []string
	for _, a := range f.Log() {
		if a.Op != OpWrite {
			continue
		}
		line := append([]byte(f.Name(a.Addr)), " <- "...)
		out = append(out, string(conv.AppendHex32(line, a.Value)))
	}
	return out
}
