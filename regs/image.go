//go:build !tinygo

package regs

import (
	"errors"
	"os"
	"sync/atomic"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"

	"stm32l4hal/x/conv"
)

// Window is one contiguous register block inside an image file.
type Window struct {
	Base uintptr
	Size int
}

// Image is a Bank backed by a memory-mapped file that holds register windows
// back to back, in the order they were given to MapImage. A simulator sharing
// the file sees writes immediately and can flip status bits underneath.
type Image struct {
	f       *os.File
	mem     mmap.MMap
	windows []Window
	offsets []int
}

// MapImage maps path read/write, growing the file to fit every window.
func MapImage(path string, windows ...Window) (*Image, error) {
	if len(windows) == 0 {
		return nil, errors.New("regs: image needs at least one window")
	}
	total := 0
	offsets := make([]int, len(windows))
	for i, w := range windows {
		if w.Size <= 0 || w.Size%4 != 0 || w.Base%4 != 0 {
			return nil, errors.New("regs: window " + conv.Hex32(uint32(w.Base)) + " is not word aligned")
		}
		offsets[i] = total
		total += w.Size
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() < int64(total) {
		if err := f.Truncate(int64(total)); err != nil {
			f.Close()
			return nil, err
		}
	}
	mem, err := mmap.MapRegion(f, total, mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Image{f: f, mem: mem, windows: windows, offsets: offsets}, nil
}

type imageReg struct{ p *uint32 }

func (r imageReg) Get() uint32  { return atomic.LoadUint32(r.p) }
func (r imageReg) Set(v uint32) { atomic.StoreUint32(r.p, v) }

// Reg implements Bank. Addresses outside every window panic.
func (im *Image) Reg(addr uintptr) Register32 {
	for i, w := range im.windows {
		if addr >= w.Base && addr < w.Base+uintptr(w.Size) {
			off := im.offsets[i] + int(addr-w.Base)
			return imageReg{p: (*uint32)(unsafe.Pointer(&im.mem[off&^3]))}
		}
	}
	panic("regs: address " + conv.Hex32(uint32(addr)) + " outside image")
}

// Flush writes dirty pages back to the file.
func (im *Image) Flush() error { return im.mem.Flush() }

// Close unmaps the image and closes the file.
func (im *Image) Close() error {
	err := im.mem.Unmap()
	if cerr := im.f.Close(); err == nil {
		err = cerr
	}
	return err
}
