//go:build tinygo

package mmio

/*
#include <stdint.h>

static inline uint32_t advance_swp(uintptr_t addr, uint32_t value) {
	uint32_t old;
	__asm__ volatile("swp %0, %2, [%1]" : "=&r"(old) : "r"(addr), "r"(value) : "memory");
	return old;
}

static inline uint8_t advance_swpb(uintptr_t addr, uint8_t value) {
	uint32_t old;
	__asm__ volatile("swpb %0, %2, [%1]" : "=&r"(old) : "r"(addr), "r"((uint32_t)value) : "memory");
	return (uint8_t)old;
}
*/
import "C"

import (
	"runtime/volatile"
	"unsafe"
)

func load8(addr uintptr) uint8 {
	return volatile.LoadUint8((*uint8)(unsafe.Pointer(addr)))
}

func load16(addr uintptr) uint16 {
	return volatile.LoadUint16((*uint16)(unsafe.Pointer(addr)))
}

func load32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func store8(addr uintptr, v uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(addr)), v)
}

func store16(addr uintptr, v uint16) {
	volatile.StoreUint16((*uint16)(unsafe.Pointer(addr)), v)
}

func store32(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

func swap8(addr uintptr, v uint8) uint8 {
	return uint8(C.advance_swpb(C.uintptr_t(addr), C.uint8_t(v)))
}

func swap32(addr uintptr, v uint32) uint32 {
	return uint32(C.advance_swp(C.uintptr_t(addr), C.uint32_t(v)))
}
