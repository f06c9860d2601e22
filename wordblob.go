package stentorian

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// wordBlobBufferSize is the fixed UTF-16 buffer length inside a word
// blob (§6): `{u32 size, u32 word_number, u16 buffer[128]}`.
const wordBlobBufferSize = 128

// EncodeWordBlob packs word as the argument to a grammar-control list
// mutation call (§6 "Word blob"). Text longer than the fixed buffer is
// truncated to fit, matching the engine's fixed-size struct.
func EncodeWordBlob(word string) []byte {
	units := utf16.Encode([]rune(word))
	if len(units) > wordBlobBufferSize {
		units = units[:wordBlobBufferSize]
	}

	var out bytes.Buffer
	writeU32(&out, uint32(8+2*wordBlobBufferSize))
	writeU32(&out, 0) // word_number: unused by this core, always zero
	for _, u := range units {
		writeU16(&out, u)
	}
	for i := len(units); i < wordBlobBufferSize; i++ {
		writeU16(&out, 0)
	}
	return out.Bytes()
}

// DecodeWordBlob is the inverse of EncodeWordBlob, used by tests and
// by any caller round-tripping a blob the engine handed back.
func DecodeWordBlob(blob []byte) (string, error) {
	if len(blob) < 8 {
		return "", EngineError{Op: "DecodeWordBlob", Status: StatusInvalidArgument}
	}
	size := binary.LittleEndian.Uint32(blob[0:4])
	if int(size) != len(blob) {
		return "", EngineError{Op: "DecodeWordBlob", Status: StatusInvalidArgument}
	}

	buf := blob[8:]
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[2*i : 2*i+2])
	}
	return decodeUTF16Z(units), nil
}

// EncodeSelectionText packs text as a selection-text blob (§6):
// UTF-16LE, u16(0) terminator, zero-padded to a 4-byte multiple.
func EncodeSelectionText(text string) []byte {
	return encodeNamePayload(text)
}

// DecodeSelectionText is the inverse of EncodeSelectionText.
func DecodeSelectionText(blob []byte) string {
	units := make([]uint16, len(blob)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(blob[2*i : 2*i+2])
	}
	return decodeUTF16Z(units)
}

// decodeUTF16Z decodes units up to (but not including) the first
// u16(0) terminator, ignoring any trailing zero padding.
func decodeUTF16Z(units []uint16) string {
	for i, u := range units {
		if u == 0 {
			units = units[:i]
			break
		}
	}
	return string(utf16.Decode(units))
}
