//go:build tinygo

package irq

/*
#include <stdint.h>

extern void advance_irq_dispatch(void);

// advance_irq_entry is the address stored at Vector.
//
// Entry, from the BIOS:  ARM state, IRQ mode, I bit set, r0 = 0x04000000,
//                        r0-r3, r12 and the return lr already on the IRQ stack.
// Exit:                  bx lr back into the BIOS, which restores those and
//                        returns to the interrupted instruction and mode.
//
// The IRQ stack is a few dozen bytes, so the Go dispatcher runs in System
// mode (same banked sp as the foreground program) with the I bit still set.
// SPSR and the IRQ lr are kept on the IRQ stack across the call because a
// nested exception would overwrite them. sp is aligned to 8 for the call.
// r4-r11 are callee-saved under AAPCS and not touched here.
__attribute__((naked, target("arm")))
void advance_irq_entry(void) {
	__asm__ volatile(
		"mrs   r1, spsr\n"
		"stmfd sp!, {r1, lr}\n"
		"msr   cpsr_c, #0x9F\n"
		"mov   r2, sp\n"
		"bic   sp, sp, #7\n"
		"stmfd sp!, {r2, lr}\n"
		"ldr   r1, =advance_irq_dispatch\n"
		"mov   lr, pc\n"
		"bx    r1\n"
		"ldmfd sp!, {r2, lr}\n"
		"mov   sp, r2\n"
		"msr   cpsr_c, #0x92\n"
		"ldmfd sp!, {r1, lr}\n"
		"msr   spsr_fc, r1\n"
		"bx    lr\n"
		".ltorg\n"
	);
}

static inline uintptr_t advance_irq_entry_addr(void) {
	return (uintptr_t)&advance_irq_entry;
}
*/
import "C"

//export advance_irq_dispatch
func irqDispatch() {
	dispatch()
}

func entry() uint32 {
	return uint32(C.advance_irq_entry_addr())
}
