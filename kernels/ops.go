// Package kernels provides in-place elementwise and aggregate operations
// over raw float32 data. Each kernel has the functional signature
// func([]byte) and operates directly on a buffer's byte slice with zero
// allocations; core.Buffer's host array is exactly this kind of byte
// slice, so plugin.Kernel dispatches through Catalog directly against
// GetHostArray's result.
//
// Catalog covers the handful of ops a dataflow pipeline over float32
// buffers plausibly needs: a no-op identity, a pointwise activation
// (ReLU), pairwise combination of two equal-length vectors packed
// back-to-back in one buffer (Add, Mul), and single-buffer aggregation
// (Sum, Max). Matrix multiplication and the other neural-network
// activations the teacher's catalog carried (sigmoid, tanh, softmax) are
// not wired here; see the kernels/ops.go entry in DESIGN.md for why.
package kernels

import (
	"math"
	"unsafe"
)

// KernelFn operates in-place on a buffer's byte slice with zero allocations.
type KernelFn func(data []byte)

// Kernel operation codes.
const (
	OpNoop = 0x00
	OpReLU = 0x01
	OpAdd  = 0x02
	OpMul  = 0x03
	OpSum  = 0x04
	OpMax  = 0x05
)

// Catalog maps opcodes to kernel implementations.
var Catalog = [256]KernelFn{
	OpNoop: noop,
	OpReLU: relu,
	OpAdd:  vectorAdd,
	OpMul:  vectorMul,
	OpSum:  vectorSum,
	OpMax:  vectorMax,
}

func noop(data []byte) {}

// relu implements Rectified Linear Unit: max(0, x).
func relu(data []byte) {
	const sz = 4
	count := len(data) / sz
	for i := 0; i < count; i++ {
		p := (*float32)(unsafe.Pointer(&data[i*sz]))
		if *p < 0 {
			*p = 0
		}
	}
}

// vectorAdd performs element-wise addition in place: data holds two
// equal-length vectors back to back ([a0,a1,..][b0,b1,..]), and the
// result overwrites a's half.
func vectorAdd(data []byte) {
	const sz = 4
	half := len(data) / 2
	count := half / sz

	aSlice := (*[1 << 20]float32)(unsafe.Pointer(&data[0]))[:count:count]
	bSlice := (*[1 << 20]float32)(unsafe.Pointer(&data[half]))[:count:count]
	VectorAddInPlace(aSlice, bSlice)
}

// vectorMul performs element-wise multiplication in place, same layout
// as vectorAdd.
func vectorMul(data []byte) {
	const sz = 4
	half := len(data) / 2
	count := half / sz

	aSlice := (*[1 << 20]float32)(unsafe.Pointer(&data[0]))[:count:count]
	bSlice := (*[1 << 20]float32)(unsafe.Pointer(&data[half]))[:count:count]
	VectorMulInPlace(aSlice, bSlice)
}

// vectorSum computes the sum of all elements, stored in the first position.
func vectorSum(data []byte) {
	const sz = 4
	count := len(data) / sz
	if count == 0 {
		return
	}

	var sum float32
	for i := 0; i < count; i++ {
		p := (*float32)(unsafe.Pointer(&data[i*sz]))
		sum += *p
	}
	result := (*float32)(unsafe.Pointer(&data[0]))
	*result = sum
}

// vectorMax finds the maximum element, stored in the first position.
func vectorMax(data []byte) {
	const sz = 4
	count := len(data) / sz
	if count == 0 {
		return
	}

	maxVal := float32(math.Inf(-1))
	for i := 0; i < count; i++ {
		p := (*float32)(unsafe.Pointer(&data[i*sz]))
		if *p > maxVal {
			maxVal = *p
		}
	}
	result := (*float32)(unsafe.Pointer(&data[0]))
	*result = maxVal
}
