// Package core provides the fundamental memory primitive of the dataflow
// engine: a dual-residency Buffer that can hold its data on the host, on a
// device, or neither, and migrates lazily between the two on demand.
//
// The design mirrors UfoBuffer from the original C implementation this
// engine descends from: a buffer carries a Requisition describing its
// shape and a Location recording which side currently holds the
// authoritative copy. Every Buffer's element type is float32, matching
// UfoBuffer's implicit element type; the only place a narrower element
// width appears is as the transient source format Convert expands from.
// Unlike the original, this package has no real device binding to call
// into - "device" residency is a second in-process byte slice that stands
// in for an OpenCL/CUDA allocation, so that the location state machine and
// migration bookkeeping can be exercised and tested without a GPU present.
// Wiring an actual accelerator backend behind GetDeviceArray is explicitly
// out of scope (see SPEC_FULL.md Non-goals).
package core

import (
	"encoding/binary"
	"math"
	"sync"
)

// MaxDims bounds the number of dimensions a Requisition may describe,
// matching UFO_BUFFER_MAX_NDIMS from the original buffer contract.
const MaxDims = 8

// bytesPerElement is the fixed width of one Buffer element: a float32.
const bytesPerElement = 4

// Requisition describes the shape of the data a Buffer holds.
type Requisition struct {
	NDims int
	Dims  [MaxDims]int
}

// Count returns the total number of elements described by the requisition.
func (r Requisition) Count() int {
	if r.NDims == 0 {
		return 0
	}
	n := 1
	for i := 0; i < r.NDims; i++ {
		n *= r.Dims[i]
	}
	return n
}

// Equal reports whether two requisitions describe the same shape.
func (r Requisition) Equal(other Requisition) bool {
	return r.Compare(other) == OrderEqual
}

// Ordering is the result of a lexicographic Requisition comparison, as
// ufo_buffer_cmp_dimensions returns.
type Ordering int

const (
	OrderLess Ordering = iota - 1
	OrderEqual
	OrderGreater
)

// Compare lexicographically orders (NDims, Dims[0..NDims)) against other,
// matching ufo_buffer_cmp_dimensions.
func (r Requisition) Compare(other Requisition) Ordering {
	if r.NDims != other.NDims {
		if r.NDims < other.NDims {
			return OrderLess
		}
		return OrderGreater
	}
	for i := 0; i < r.NDims; i++ {
		if r.Dims[i] != other.Dims[i] {
			if r.Dims[i] < other.Dims[i] {
				return OrderLess
			}
			return OrderGreater
		}
	}
	return OrderEqual
}

// SourceDepth names the packed sample width Convert expands from. A
// Buffer's own elements are always float32; SourceDepth only describes
// the transient raw format Convert reinterprets.
type SourceDepth int

const (
	SourceDepthU8 SourceDepth = iota
	SourceDepthU16
)

// Bytes returns the number of raw bytes one packed sample occupies.
func (d SourceDepth) Bytes() int {
	switch d {
	case SourceDepthU16:
		return 2
	default:
		return 1
	}
}

// Location is the residency state of a Buffer's data, following the
// Invalid -> Host/Device state machine from UfoMemLocation.
type Location int

const (
	LocationInvalid Location = iota
	LocationHost
	LocationDevice
)

func (l Location) String() string {
	switch l {
	case LocationHost:
		return "host"
	case LocationDevice:
		return "device"
	default:
		return "invalid"
	}
}

// Buffer is the dual-residency memory block moved along the dataflow graph.
// A worker that only ever touches the host array never pays for a device
// allocation, and vice versa; the location field records which side (if
// either) is authoritative so GetHostArray/GetDeviceArray know whether a
// migration is required before handing back a slice.
type Buffer struct {
	mu sync.Mutex

	requisition Requisition
	location    Location

	host   []byte // aligned host-side storage, bytesPerElement per element
	device []byte // stand-in for a device-side allocation

	// hostCap/deviceCap track each side's allocated capacity separately
	// from the current logical size, so a shrinking Resize need not
	// reallocate (per the resize-monotonicity contract).
	hostCap, deviceCap int

	// recyclable marks a Buffer that came from and should be returned to a
	// Pool once the scheduler is done routing it, rather than left for GC.
	recyclable bool
	pool       *Pool
}

// NewBuffer allocates a Buffer for the given requisition. Its location
// starts Invalid: no storage is allocated until the first GetHostArray or
// GetDeviceArray call.
func NewBuffer(req Requisition) *Buffer {
	return &Buffer{
		requisition: req,
		location:    LocationInvalid,
	}
}

// Requisition returns the buffer's current shape.
func (b *Buffer) Requisition() Requisition {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requisition
}

// Location returns the buffer's current residency state.
func (b *Buffer) Location() Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.location
}

// Size returns the number of bytes the buffer's data occupies: four times
// the element count, since every Buffer element is a float32.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BufferFootprint(b.requisition)
}

// CmpDimensions lexicographically compares the buffer's requisition
// against other, matching ufo_buffer_cmp_dimensions.
func (b *Buffer) CmpDimensions(other Requisition) Ordering {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requisition.Compare(other)
}

// Resize changes the buffer's requisition. If the new byte size is equal
// to or smaller than the current one, only the requisition changes and the
// current location's content stays valid. A larger byte size resets the
// location to Invalid, matching ufo_buffer_resize, and any allocated side
// whose capacity is too small is reallocated, preserving its existing
// bytes as a prefix of the larger allocation. Preserving rather than
// discarding the old bytes is what lets Convert (see its doc comment)
// reinterpret content written before a resize that widened the
// requisition to make room for the expanded float32 output.
func (b *Buffer) Resize(req Requisition) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := req.Count() * bytesPerElement
	grew := size > b.requisition.Count()*bytesPerElement
	if b.host != nil && size > b.hostCap {
		grown := AlignedBytes(AlignCacheLine(size))
		copy(grown, b.host)
		b.host = grown
		b.hostCap = len(grown)
	}
	if b.device != nil && size > b.deviceCap {
		grown := AlignedBytes(AlignCacheLine(size))
		copy(grown, b.device)
		b.device = grown
		b.deviceCap = len(grown)
	}
	b.requisition = req
	if grew {
		b.location = LocationInvalid
	}
}

// GetHostArray returns the host-side byte slice, migrating data from the
// device side first if the device is currently authoritative. The returned
// slice aliases the buffer's internal storage; callers must not retain it
// past the buffer's next mutation.
func (b *Buffer) GetHostArray() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.requisition.Count() * bytesPerElement
	if b.host == nil || b.hostCap < size {
		host := AlignedBytes(AlignCacheLine(size))
		if size > 0 && len(host) < size {
			return nil, NewError(KindAllocationFailure, "failed to allocate host array")
		}
		if b.host != nil {
			copy(host, b.host)
		}
		b.host = host
		b.hostCap = len(host)
	}

	switch b.location {
	case LocationDevice:
		if b.device == nil || b.deviceCap < size {
			return nil, WrapError(KindTransferFailure, ErrDeviceNotAllocated, "migrate device to host")
		}
		copy(b.host, b.device[:size])
		b.location = LocationHost
	case LocationInvalid:
		b.location = LocationHost
	}
	return b.host[:size], nil
}

// GetDeviceArray is the device-side counterpart of GetHostArray. It
// migrates host data to the device side first if the host is currently
// authoritative.
func (b *Buffer) GetDeviceArray() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.requisition.Count() * bytesPerElement
	if b.device == nil || b.deviceCap < size {
		device := AlignedBytes(AlignCacheLine(size))
		if size > 0 && len(device) < size {
			return nil, NewError(KindAllocationFailure, "failed to allocate device array")
		}
		if b.device != nil {
			copy(device, b.device)
		}
		b.device = device
		b.deviceCap = len(device)
	}

	switch b.location {
	case LocationHost:
		if b.host == nil || b.hostCap < size {
			return nil, WrapError(KindTransferFailure, ErrHostNotAllocated, "migrate host to device")
		}
		copy(b.device, b.host[:size])
		b.location = LocationDevice
	case LocationInvalid:
		b.location = LocationDevice
	}
	return b.device[:size], nil
}

// DiscardLocation drops the buffer's claim that loc holds valid data
// without freeing storage, matching ufo_buffer_discard_location. Discarding
// the buffer's current authoritative location resets it to Invalid.
func (b *Buffer) DiscardLocation(loc Location) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.location == loc {
		b.location = LocationInvalid
	}
}

// Convert reinterprets the host array's leading packed samples - count()
// samples of source width, the same element count the requisition already
// describes - as source-depth integers and expands each in place to its
// float32 representation. Expansion walks from the highest index down to
// the lowest so a wider (4-byte) write at index i never clobbers an
// as-yet-unread narrower (source-depth) sample at some index < i.
//
// Precondition: location must be Host, and the host array must already be
// sized for the post-expansion float32 content (the caller Resizes first,
// per S2 in SPEC_FULL.md). Convert leaves the location Host.
func (b *Buffer) Convert(source SourceDepth) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.location != LocationHost {
		return NewError(KindTransferFailure, "convert requires host-resident data")
	}

	n := b.requisition.Count()
	size := n * bytesPerElement
	if b.host == nil || b.hostCap < size {
		return NewError(KindTransferFailure, "host array too small for conversion target")
	}
	bpe := source.Bytes()

	for i := n - 1; i >= 0; i-- {
		off := i * bpe
		var sample uint32
		switch source {
		case SourceDepthU16:
			sample = uint32(binary.LittleEndian.Uint16(b.host[off : off+2]))
		default:
			sample = uint32(b.host[off])
		}
		binary.LittleEndian.PutUint32(b.host[i*bytesPerElement:(i+1)*bytesPerElement], math.Float32bits(float32(sample)))
	}
	return nil
}

// Dup returns a deep copy of the buffer, including whichever side is
// currently authoritative.
func (b *Buffer) Dup() *Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()

	clone := &Buffer{
		requisition: b.requisition,
		location:    b.location,
	}
	if b.host != nil {
		clone.host = AlignedBytes(len(b.host))
		copy(clone.host, b.host)
		clone.hostCap = len(clone.host)
	}
	if b.device != nil {
		clone.device = AlignedBytes(len(b.device))
		copy(clone.device, b.device)
		clone.deviceCap = len(clone.device)
	}
	return clone
}

// Copy overwrites the receiver's host-side data with src's, discarding any
// device-side copy. Both buffers must hold the same byte size.
func (b *Buffer) Copy(src *Buffer) error {
	srcHost, err := src.GetHostArray()
	if err != nil {
		return err
	}
	dstHost, err := b.GetHostArray()
	if err != nil {
		return err
	}
	if len(srcHost) != len(dstHost) {
		return NewError(KindTransferFailure, "buffer size mismatch on copy")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	copy(b.host, srcHost)
	b.device = nil
	b.deviceCap = 0
	b.location = LocationHost
	return nil
}
