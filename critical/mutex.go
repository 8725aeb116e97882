package critical

// Mutex is a lock that never waits. A single core cannot wait for the other
// side of an interrupt to finish: the foreground cannot run while the handler
// does, and the handler spinning on a lock the foreground holds would hang
// forever. TryLock therefore either takes the lock or reports contention and
// leaves the decision to the caller.
//
// The zero value is unlocked.
type Mutex struct {
	locked Static[bool]
}

// Guard proves ownership of a locked Mutex. Unlock releases it.
type Guard struct {
	m *Mutex
}

// TryLock takes the lock if it is free. The test and the set are one swap.
func (m *Mutex) TryLock() (Guard, bool) {
	if m.locked.Replace(true) {
		return Guard{}, false
	}
	return Guard{m: m}, true
}

// Locked reports whether the lock is held.
func (m *Mutex) Locked() bool {
	return m.locked.Read()
}

// Unlock releases the lock. Unlocking twice, or through a zero Guard, is a
// logic error and stops the program.
func (g Guard) Unlock() {
	if g.m == nil || !g.m.locked.Replace(false) {
		Fatal("critical: unlock of unlocked mutex")
	}
}

// With runs fn while holding m and reports whether it ran.
func (m *Mutex) With(fn func()) bool {
	g, ok := m.TryLock()
	if !ok {
		return false
	}
	defer g.Unlock()
	fn()
	return true
}
