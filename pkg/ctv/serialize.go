// Canonical field encodings used by the template hash preimages.
//
// Integers are little-endian fixed width; counts and script length prefixes
// use the Bitcoin CompactSize convention. These match the consensus
// serialization of the corresponding transaction fields, so the sub-hash
// preimages are byte-identical to slices of the wire encoding.
package ctv

import "encoding/binary"

// AppendInt32 appends v in little-endian fixed 4-byte form.
func AppendInt32(b []byte, v int32) []byte {
	return AppendUint32(b, uint32(v))
}

// AppendUint32 appends v in little-endian fixed 4-byte form.
func AppendUint32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

// AppendInt64 appends v in little-endian fixed 8-byte form. Output amounts
// are serialized this way.
func AppendInt64(b []byte, v int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return append(b, buf[:]...)
}

// AppendCompactSize appends n as a Bitcoin CompactSize variable-length
// integer: values below 0xfd take one byte, larger values a one-byte marker
// followed by 2, 4 or 8 little-endian bytes.
func AppendCompactSize(b []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(b, byte(n))
	case n <= 0xffff:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(n))
		return append(append(b, 0xfd), buf[:]...)
	case n <= 0xffffffff:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(n))
		return append(append(b, 0xfe), buf[:]...)
	default:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], n)
		return append(append(b, 0xff), buf[:]...)
	}
}

// AppendScript appends script as a CompactSize length prefix followed by
// the raw bytes, the consensus encoding of a script field.
func AppendScript(b []byte, script []byte) []byte {
	b = AppendCompactSize(b, uint64(len(script)))
	return append(b, script...)
}
