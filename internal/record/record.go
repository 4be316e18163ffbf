// Package record decodes a LeafTable cell's payload into a typed Record:
// the varint-encoded record header (one serial type per column) followed by
// the column values themselves.
package record

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/relnoir/sqlitelite/internal/varint"
)

// Record is the decoded contents of one LeafTable cell.
type Record struct {
	PayloadSize int64
	RowID int64
	Fields []Value
}

// FieldAt returns the i-th decoded field.
func (r Record) FieldAt(i int) (Value, error) {
	if i < 0 || i >= len(r.Fields) {
		return Value{}, fmt.Errorf("record: field index %d out of range [0,%d)", i, len(r.Fields))
	}
	return r.Fields[i], nil
}

// Decode parses buf, which must begin at the start of a LeafTable cell:
// [payload_size varint][rowid varint][record body].
func Decode(buf []byte) (Record, error) {
	cursor := 0

	payloadSize, w, err := varint.Decode(buf[cursor:])
	if err != nil {
		return Record{}, fmt.Errorf("record: payload size: %w", err)
	}
	cursor += w

	rowID, w, err := varint.Decode(buf[cursor:])
	if err != nil {
		return Record{}, fmt.Errorf("record: rowid: %w", err)
	}
	cursor += w

	if cursor > len(buf) {
		return Record{}, fmt.Errorf("record: cell truncated before record body")
	}
	body := buf[cursor:]

	serialTypes, headerWidth, err := decodeHeader(body)
	if err != nil {
		return Record{}, fmt.Errorf("record: header: %w", err)
	}

	fields := make([]Value, len(serialTypes))
	fieldCursor := headerWidth
	for i, st := range serialTypes {
		width, err := fieldWidth(st)
		if err != nil {
			return Record{}, fmt.Errorf("record: field %d: %w", i, err)
		}
		if fieldCursor+width > len(body) {
			return Record{}, fmt.Errorf("record: field %d overruns cell payload", i)
		}
		val, err := decodeField(st, body[fieldCursor:fieldCursor+width])
		if err != nil {
			return Record{}, fmt.Errorf("record: field %d: %w", i, err)
		}
		fields[i] = val
		fieldCursor += width
	}

	return Record{PayloadSize: payloadSize, RowID: rowID, Fields: fields}, nil
}

// decodeHeader reads the record-header-size varint and then decodes serial
// type varints until the cursor has advanced exactly that many bytes past
// where the header-size varint started.
func decodeHeader(body []byte) (serialTypes []int64, headerWidth int, err error) {
	h0 := 0
	headerSize, w, err := varint.Decode(body[h0:])
	if err != nil {
		return nil, 0, fmt.Errorf("header size: %w", err)
	}
	cursor := h0 + w

	for int64(cursor-h0) < headerSize {
		st, w, err := varint.Decode(body[cursor:])
		if err != nil {
			return nil, 0, fmt.Errorf("serial type: %w", err)
		}
		cursor += w
		if int64(cursor-h0) > headerSize {
			return nil, 0, fmt.Errorf("serial type varints overshot record_header_size %d", headerSize)
		}
		serialTypes = append(serialTypes, st)
	}

	return serialTypes, cursor, nil
}

// fieldWidth returns the number of payload bytes a serial type occupies, or
// an error for reserved or unsupported types (6-byte integers are treated
// as unsupported rather than decoded).
func fieldWidth(serialType int64) (int, error) {
	switch {
	case serialType == 0, serialType == 8, serialType == 9:
		return 0, nil
	case serialType == 1:
		return 1, nil
	case serialType == 2:
		return 2, nil
	case serialType == 3:
		return 3, nil
	case serialType == 4:
		return 4, nil
	case serialType == 5:
		return 0, fmt.Errorf("%w: 6-byte integer (serial type 5)", ErrUnsupported)
	case serialType == 6:
		return 8, nil
	case serialType == 7:
		return 8, nil
	case serialType == 10 || serialType == 11:
		return 0, fmt.Errorf("serial type %d is reserved", serialType)
	case serialType >= 12 && serialType%2 == 0:
		return int((serialType - 12) / 2), nil
	case serialType >= 13 && serialType%2 == 1:
		return int((serialType - 13) / 2), nil
	default:
		return 0, fmt.Errorf("serial type %d out of range", serialType)
	}
}

func decodeField(serialType int64, data []byte) (Value, error) {
	switch {
	case serialType == 0:
		return NewNull(), nil
	case serialType == 8:
		return NewInteger(0), nil
	case serialType == 9:
		return NewInteger(1), nil
	case serialType >= 1 && serialType <= 4:
		return NewInteger(decodeSignedBigEndian(data)), nil
	case serialType == 6:
		return NewInteger(decodeSignedBigEndian(data)), nil
	case serialType == 7:
		bits := uint64(0)
		for _, b := range data {
			bits = (bits << 8) | uint64(b)
		}
		return NewFloat(math.Float64frombits(bits)), nil
	case serialType >= 12 && serialType%2 == 0:
		cp := make([]byte, len(data))
		copy(cp, data)
		return NewBlob(cp), nil
	case serialType >= 13 && serialType%2 == 1:
		if !utf8.Valid(data) {
			return Value{}, fmt.Errorf("%w: invalid UTF-8 in TEXT field", ErrFormatCorruption)
		}
		return NewText(string(data)), nil
	default:
		return Value{}, fmt.Errorf("cannot decode serial type %d", serialType)
	}
}

// decodeSignedBigEndian reinterprets data (1, 2, 3, 4, or 8 bytes) as a
// big-endian two's complement signed integer, sign-extending the way the
// narrower widths require.
func decodeSignedBigEndian(data []byte) int64 {
	var v uint64
	for _, b := range data {
		v = (v << 8) | uint64(b)
	}
	bits := uint(len(data) * 8)
	if bits >= 64 {
		return int64(v)
	}
	signBit := uint64(1) << (bits - 1)
	if v&signBit != 0 {
		v |= ^uint64(0) << bits
	}
	return int64(v)
}
