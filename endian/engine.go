// Package endian provides the byte order engines used to read MUX2 files.
//
// MUX2 files carry no byte order marker: the simulation writes its in-memory
// structs straight to disk, so the order is whatever the producing host used.
// Nearly all archives come from little-endian machines, which is why
// GetLittleEndianEngine is the default everywhere in tidemux.
//
//	engine := endian.GetLittleEndianEngine()
//	count := int32(engine.Uint32(buf[0:4]))
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian, so the
// decoder can read with Uint32 while fixture writers append with AppendUint32.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// GetNativeEngine returns the engine matching the host byte order.
//
// Useful when decoding files produced on the same machine that runs the decoder.
func GetNativeEngine() EndianEngine {
	if CheckEndianness() == binary.BigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ParseEngine maps a configuration name to an engine.
//
// Accepted names are "little", "big" and "native" (case-insensitive). An empty
// name selects little-endian.
func ParseEngine(name string) (EndianEngine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "little", "le":
		return GetLittleEndianEngine(), nil
	case "big", "be":
		return GetBigEndianEngine(), nil
	case "native":
		return GetNativeEngine(), nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}

// Name returns the configuration name of the engine.
func Name(engine EndianEngine) string {
	if engine == binary.BigEndian {
		return "big"
	}

	return "little"
}
