package periph

import (
	"reflect"
	"testing"

	"stm32l4hal/chip"
	"stm32l4hal/internal/mint"
	"stm32l4hal/regs"
)

func TestIssueBindsInstance(t *testing.T) {
	bank := regs.NewFake()
	inst := chip.L476VG.MustLookup("USART2")
	u := Issue[USART](mint.New(), inst, bank)
	if u.Name() != "USART2" || u.Instance().Bus != chip.APB1R1 {
		t.Fatalf("bound instance = %+v", u.Instance())
	}
	u.Reg(0x0C).Set(694)
	if bank.Peek(0x40004400+0x0C) != 694 {
		t.Fatal("register offset not applied to instance base")
	}
	var p Peripheral = u
	if p.Instance().Name != "USART2" {
		t.Fatal("token does not satisfy Peripheral")
	}
}

func TestUnboundTokenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	var g GPIO
	g.Reg(0)
}

// Each issue yields a fresh token; nothing is cached or shared.
func TestIssueDoesNotShare(t *testing.T) {
	bank := regs.NewFake()
	a := Issue[GPIO](mint.New(), chip.L496AG.MustLookup("GPIOA"), bank)
	b := Issue[GPIO](mint.New(), chip.L496AG.MustLookup("GPIOI"), bank)
	if a == b || a.Name() == b.Name() {
		t.Fatal("tokens alias")
	}
}

// The vet copylocks check relies on every token type containing a value
// with Lock and Unlock methods.
func TestTokensCarryNoCopy(t *testing.T) {
	locker := reflect.TypeOf((*interface {
		Lock()
		Unlock()
	})(nil)).Elem()
	for _, ptr := range []any{(*GPIO)(nil), (*USART)(nil), (*SPI)(nil), (*I2C)(nil), (*Timer)(nil), (*DMA)(nil), (*Flash)(nil), (*Block)(nil)} {
		typ := reflect.TypeOf(ptr).Elem()
		tok := typ.Field(0).Type
		if tok != reflect.TypeOf((*Token)(nil)).Elem() {
			t.Fatalf("%s does not embed Token", typ)
		}
		if !reflect.PointerTo(tok.Field(0).Type).Implements(locker) {
			t.Fatalf("%s: first field of Token is not a noCopy marker", typ)
		}
		for i := 0; i < tok.NumField(); i++ {
			if tok.Field(i).IsExported() {
				t.Fatalf("Token field %s is exported", tok.Field(i).Name)
			}
		}
	}
}
