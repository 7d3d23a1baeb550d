// Package report renders the frozen clock tree as a single text line the
// firmware prints at boot, and parses that line back on the host.
//
//	clocks src=PLL sysclk=80000000 hclk=80000000 pclk1=80000000 pclk2=80000000 pllq=0 latency=4
//
// Append renders into the caller's buffer and does not allocate.
package report

import (
	"bytes"

	"stm32l4hal/errcode"
	"stm32l4hal/rcc"
	"stm32l4hal/x/conv"

	"tinygo.org/x/drivers"
)

// ErrMalformed is returned by Parse for lines that are not a clock report.
var ErrMalformed error = errcode.Malformed

const prefix = "clocks"

// Summary is the part of the frozen clocks a report carries.
type Summary struct {
	Source  string
	SysClk  uint32
	HCLK    uint32
	PCLK1   uint32
	PCLK2   uint32
	PLLQ    uint32
	Latency uint32
}

// From extracts the reported fields of c.
func From(c rcc.Clocks) Summary {
	return Summary{
		Source:  c.Source().String(),
		SysClk:  c.SysClk(),
		HCLK:    c.HCLK(),
		PCLK1:   c.PCLK1(),
		PCLK2:   c.PCLK2(),
		PLLQ:    c.PLLQ(),
		Latency: uint32(c.FlashLatency()),
	}
}

// Append renders the report line of c, without a line terminator.
func Append(dst []byte, c rcc.Clocks) []byte {
	s := From(c)
	dst = append(dst, prefix...)
	dst = append(dst, " src="...)
	dst = append(dst, s.Source...)
	for _, kv := range s.fields() {
		dst = append(dst, ' ')
		dst = append(dst, kv.key...)
		dst = append(dst, '=')
		dst = conv.AppendUint(dst, uint64(*kv.val))
	}
	return dst
}

// Write sends the report line of c, CRLF terminated, to u.
func Write(u drivers.UART, c rcc.Clocks) error {
	var buf [128]byte
	line := append(Append(buf[:0], c), '\r', '\n')
	_, err := u.Write(line)
	return err
}

type field struct {
	key string
	val *uint32
}

func (s *Summary) fields() [6]field {
	return [6]field{
		{"sysclk", &s.SysClk},
		{"hclk", &s.HCLK},
		{"pclk1", &s.PCLK1},
		{"pclk2", &s.PCLK2},
		{"pllq", &s.PLLQ},
		{"latency", &s.Latency},
	}
}

// Parse reads a report line. Surrounding whitespace is ignored, unknown keys
// are skipped, and every known key must be present.
func Parse(line []byte) (Summary, error) {
	var s Summary
	words := bytes.Fields(line)
	if len(words) == 0 || string(words[0]) != prefix {
		return s, ErrMalformed
	}
	fs := s.fields()
	var seen [len(fs) + 1]bool
	for _, w := range words[1:] {
		k, v, ok := bytes.Cut(w, []byte{'='})
		if !ok {
			return s, ErrMalformed
		}
		if string(k) == "src" {
			if _, ok := rcc.ParseSource(string(v)); !ok {
				return s, ErrMalformed
			}
			s.Source = string(v)
			seen[len(fs)] = true
			continue
		}
		for i, f := range fs {
			if string(k) != f.key {
				continue
			}
			n, ok := conv.ParseUint(v)
			if !ok {
				return s, ErrMalformed
			}
			*f.val = n
			seen[i] = true
		}
	}
	for _, ok := range seen {
		if !ok {
			return s, ErrMalformed
		}
	}
	return s, nil
}

// Equal reports whether two summaries describe the same tree.
func (s Summary) Equal(o Summary) bool { return s == o }

// Compare returns nil when got matches want, or a mismatch error naming the
// first differing field.
func Compare(want, got Summary) error {
	if want.Source != got.Source {
		return &errcode.E{C: errcode.Mismatch, Op: "report", Msg: "src: want " + want.Source + ", got " + got.Source}
	}
	wf, gf := want.fields(), got.fields()
	for i := range wf {
		if *wf[i].val != *gf[i].val {
			msg := wf[i].key + ": want " + conv.Utoa(uint64(*wf[i].val)) + ", got " + conv.Utoa(uint64(*gf[i].val))
			return &errcode.E{C: errcode.Mismatch, Op: "report", Msg: msg}
		}
	}
	return nil
}
