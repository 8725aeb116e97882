package critical_test

import (
	"errors"
	"fmt"
	"testing"

	"advance/critical"
	"advance/irq"
	"advance/mmio"
	"advance/sim"
)

// preempt attaches a machine whose timer 0 interrupt fires at every bus
// access the foreground makes, and routes it to h.
func preempt(t *testing.T, h irq.Handler) *sim.Machine {
	t.Helper()
	m := sim.Attach(t)
	irq.Install()
	irq.Enable(irq.Timer0)
	prev := irq.SetHandler(h)
	t.Cleanup(func() { irq.SetHandler(prev) })
	m.OnAccess(func(uint32, bool) { m.Raise(irq.Timer0) })
	return m
}

func fatal(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a fatal stop")
		}
		err, _ = r.(error)
	}()
	fn()
	return nil
}

func TestDisableRestoreNests(t *testing.T) {
	sim.Attach(t)
	critical.IME.Write(1)

	outer := critical.Disable()
	if outer != 1 || critical.IME.Read() != 0 {
		t.Fatalf("Disable returned %d, IME now %d", outer, critical.IME.Read())
	}
	inner := critical.Disable()
	if inner != 0 {
		t.Fatalf("nested Disable returned %d", inner)
	}
	critical.Restore(inner)
	if critical.IME.Read() != 0 {
		t.Error("inner Restore re-enabled interrupts")
	}
	critical.Restore(outer)
	if critical.IME.Read() != 1 {
		t.Error("outer Restore did not re-enable interrupts")
	}
}

func TestRunDefersInterrupts(t *testing.T) {
	var order []string
	m := preempt(t, func(irq.Flags) { order = append(order, "irq") })
	m.OnAccess(nil)

	critical.Run(func() {
		m.Raise(irq.Timer0)
		order = append(order, "body")
	})
	if len(order) != 2 || order[0] != "body" || order[1] != "irq" {
		t.Errorf("order = %v, want the interrupt after the body", order)
	}
}

func TestStaticWordNeverTorn(t *testing.T) {
	var cell critical.Static[uint32]
	var prev, next uint32
	var seen, torn int

	preempt(t, func(irq.Flags) {
		seen++
		if v := cell.Read(); v != prev && v != next {
			torn++
		}
	})

	for i := uint32(0); i < 200; i++ {
		prev, next = next, i*0x01010101^0xA5A5A5A5
		cell.Write(next)
		mmio.Yield()
		prev = next
	}
	if seen < 200 {
		t.Errorf("handler ran %d times, want at least one per write", seen)
	}
	if torn != 0 {
		t.Errorf("handler saw %d values that were never written", torn)
	}
}

type quad [4]uint32

func uniform(q quad) bool {
	return q[0] == q[1] && q[1] == q[2] && q[2] == q[3]
}

func TestStaticMultiWordNeverTorn(t *testing.T) {
	var cell critical.Static[quad]
	var torn, seen int
	k := uint32(0)

	preempt(t, func(irq.Flags) {
		seen++
		k++
		cell.Write(quad{k, k, k, k})
	})

	for i := 0; i < 200; i++ {
		if q := cell.Read(); !uniform(q) {
			torn++
		}
	}
	if seen == 0 {
		t.Fatal("handler never ran")
	}
	if torn != 0 {
		t.Errorf("%d of 200 reads mixed two writes", torn)
	}
}

func TestPlainCopyIsTorn(t *testing.T) {
	// The same setup with an unguarded word-by-word copy must tear, or the
	// test above proves nothing.
	var shared quad
	k := uint32(0)
	preempt(t, func(irq.Flags) {
		k++
		shared = quad{k, k, k, k}
	})

	var q quad
	for i := range q {
		q[i] = shared[i]
		mmio.Yield()
	}
	if uniform(q) {
		t.Errorf("unguarded copy %v was not torn", q)
	}
}

func TestStaticReplace(t *testing.T) {
	sim.Attach(t)
	flag := critical.NewStatic(uint8(3))
	if old := flag.Replace(9); old != 3 || flag.Read() != 9 {
		t.Errorf("uint8 Replace: old %d, now %d", old, flag.Read())
	}
	half := critical.NewStatic(uint16(0xBEEF))
	if old := half.Replace(1); old != 0xBEEF || half.Read() != 1 {
		t.Errorf("uint16 Replace: old %#x, now %d", old, half.Read())
	}
	name := critical.NewStatic("a")
	if old := name.Replace("b"); old != "a" || name.Read() != "b" {
		t.Errorf("string Replace: old %q, now %q", old, name.Read())
	}
}

func TestMutexExclusion(t *testing.T) {
	sim.Attach(t)
	var mu critical.Mutex

	g, ok := mu.TryLock()
	if !ok || !mu.Locked() {
		t.Fatal("first TryLock failed")
	}
	if _, ok := mu.TryLock(); ok {
		t.Fatal("second TryLock succeeded while the first guard is held")
	}
	g.Unlock()
	if mu.Locked() {
		t.Fatal("still locked after Unlock")
	}
	g2, ok := mu.TryLock()
	if !ok {
		t.Fatal("TryLock after Unlock failed")
	}
	g2.Unlock()
}

func TestMutexFromInterrupt(t *testing.T) {
	var mu critical.Mutex
	var got, busy int
	preempt(t, func(irq.Flags) {
		if !mu.With(func() { got++ }) {
			busy++
		}
	})

	g, ok := mu.TryLock()
	if !ok {
		t.Fatal("TryLock failed")
	}
	mmio.Yield()
	mmio.Yield()
	g.Unlock()
	mmio.Yield()

	if busy == 0 {
		t.Error("handler never found the lock held")
	}
	if got == 0 {
		t.Error("handler never took the free lock")
	}
	t.Logf("handler: %d acquired, %d busy", got, busy)
}

func TestDoubleUnlockIsFatal(t *testing.T) {
	sim.Attach(t)
	critical.IME.Write(1)
	var mu critical.Mutex
	g, _ := mu.TryLock()
	g.Unlock()

	err := fatal(t, g.Unlock)
	if !errors.Is(err, critical.ErrFatal) {
		t.Errorf("double unlock stopped with %v", err)
	}
	if critical.IME.Read() != 0 {
		t.Error("Fatal left interrupts enabled")
	}

	if err := fatal(t, critical.Guard{}.Unlock); !errors.Is(err, critical.ErrFatal) {
		t.Errorf("zero guard unlock stopped with %v", err)
	}
}

func TestFatalWriter(t *testing.T) {
	sim.Attach(t)
	var got string
	critical.SetFatalWriter(func(msg string) { got = msg })
	t.Cleanup(func() { critical.SetFatalWriter(nil) })

	fatal(t, func() { critical.Fatal("broken invariant") })
	if got != "broken invariant" {
		t.Errorf("writer got %q", got)
	}
}

func TestOnce(t *testing.T) {
	sim.Attach(t)
	var once critical.Once[string]
	calls := 0

	if _, ok := once.Value(); ok {
		t.Fatal("Value reported set before Get")
	}
	for i := 0; i < 3; i++ {
		v, err := once.Get(func() string {
			calls++
			return fmt.Sprint("value ", calls)
		})
		if err != nil || v != "value 1" {
			t.Fatalf("Get = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("init ran %d times", calls)
	}
	if v, ok := once.Value(); !ok || v != "value 1" {
		t.Errorf("Value = %q, %v", v, ok)
	}
}

func TestOnceReentrant(t *testing.T) {
	var once critical.Once[int]
	var inner error
	var fromIRQ []error

	preempt(t, func(irq.Flags) {
		_, err := once.Get(func() int { return -1 })
		fromIRQ = append(fromIRQ, err)
	})

	v, err := once.Get(func() int {
		_, inner = once.Get(func() int { return -2 })
		mmio.Yield()
		return 42
	})
	if err != nil || v != 42 {
		t.Fatalf("Get = %d, %v", v, err)
	}
	if !errors.Is(inner, critical.ErrReentrant) {
		t.Errorf("Get from inside init returned %v", inner)
	}

	var reentrant, ok int
	for _, e := range fromIRQ {
		switch {
		case errors.Is(e, critical.ErrReentrant):
			reentrant++
		case e == nil:
			ok++
		}
	}
	if reentrant == 0 {
		t.Error("interrupt during init did not see ErrReentrant")
	}
	t.Logf("interrupts: %d during init, %d after", reentrant, ok)
	if got, _ := once.Value(); got != 42 {
		t.Errorf("value replaced by %d", got)
	}
}
