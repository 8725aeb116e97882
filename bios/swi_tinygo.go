//go:build tinygo

package bios

/*
#include <stdint.h>

typedef struct {
	uint32_t r0, r1, r2, r3;
} advance_regs;

// One helper per service: the swi immediate must be a constant. In ARM
// state the service number sits in bits 16-23 of the comment field.
#define ADVANCE_SWI(num)                                                  \
static inline void advance_swi_##num(advance_regs *regs) {              \
	register uint32_t r0 __asm__("r0") = regs->r0;                      \
	register uint32_t r1 __asm__("r1") = regs->r1;                      \
	register uint32_t r2 __asm__("r2") = regs->r2;                      \
	register uint32_t r3 __asm__("r3") = regs->r3;                      \
	__asm__ volatile("swi " #num " << 16"                               \
		: "+r"(r0), "+r"(r1), "+r"(r2), "+r"(r3)                        \
		:                                                               \
		: "r12", "lr", "cc", "memory");                                 \
	regs->r0 = r0;                                                      \
	regs->r1 = r1;                                                      \
	regs->r2 = r2;                                                      \
	regs->r3 = r3;                                                      \
}

ADVANCE_SWI(0x00)
ADVANCE_SWI(0x01)
ADVANCE_SWI(0x02)
ADVANCE_SWI(0x03)
ADVANCE_SWI(0x04)
ADVANCE_SWI(0x05)
ADVANCE_SWI(0x06)
ADVANCE_SWI(0x08)
ADVANCE_SWI(0x0A)
ADVANCE_SWI(0x0B)
ADVANCE_SWI(0x0C)
ADVANCE_SWI(0x11)
ADVANCE_SWI(0x12)
ADVANCE_SWI(0x13)
ADVANCE_SWI(0x14)
ADVANCE_SWI(0x15)
*/
import "C"

func swi(fn Function, r *Regs) {
	regs := C.advance_regs{
		r0: C.uint32_t(r.R0),
		r1: C.uint32_t(r.R1),
		r2: C.uint32_t(r.R2),
		r3: C.uint32_t(r.R3),
	}
	switch fn {
	case FuncSoftReset:
		C.advance_swi_0x00(&regs)
	case FuncRegisterRAMReset:
		C.advance_swi_0x01(&regs)
	case FuncHalt:
		C.advance_swi_0x02(&regs)
	case FuncStop:
		C.advance_swi_0x03(&regs)
	case FuncIntrWait:
		C.advance_swi_0x04(&regs)
	case FuncVBlankIntrWait:
		C.advance_swi_0x05(&regs)
	case FuncDiv:
		C.advance_swi_0x06(&regs)
	case FuncSqrt:
		C.advance_swi_0x08(&regs)
	case FuncArcTan2:
		C.advance_swi_0x0A(&regs)
	case FuncCpuSet:
		C.advance_swi_0x0B(&regs)
	case FuncCpuFastSet:
		C.advance_swi_0x0C(&regs)
	case FuncLZ77UnCompWRAM:
		C.advance_swi_0x11(&regs)
	case FuncLZ77UnCompVRAM:
		C.advance_swi_0x12(&regs)
	case FuncHuffUnComp:
		C.advance_swi_0x13(&regs)
	case FuncRLUnCompWRAM:
		C.advance_swi_0x14(&regs)
	case FuncRLUnCompVRAM:
		C.advance_swi_0x15(&regs)
	default:
		return
	}
	r.R0, r.R1, r.R2, r.R3 = uint32(regs.r0), uint32(regs.r1), uint32(regs.r2), uint32(regs.r3)
}
