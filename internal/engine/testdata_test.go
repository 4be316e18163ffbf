package engine

import "encoding/binary"

// The helpers in this file hand-assemble a tiny, valid SQLite-format file in
// memory so tests never depend on a real SQLite driver or a checked-in
// binary fixture.

const fixturePageSize = 512

type fixtureField struct {
	serialType int64
	bytes      []byte
}

func nullField() fixtureField    { return fixtureField{serialType: 0} }
func intField(n byte) fixtureField {
	return fixtureField{serialType: 1, bytes: []byte{n}}
}
func textField(s string) fixtureField {
	return fixtureField{serialType: int64(13 + 2*len(s)), bytes: []byte(s)}
}

// buildCell assembles a LeafTable cell with a single-byte payload-size and
// rowid varint, which is sufficient for every fixture row in these tests.
func buildCell(rowID byte, fields []fixtureField) []byte {
	serialTypes := make([]byte, 0, len(fields))
	var fieldBytes []byte
	for _, f := range fields {
		serialTypes = append(serialTypes, encodeSmallVarint(f.serialType)...)
		fieldBytes = append(fieldBytes, f.bytes...)
	}
	headerSize := len(serialTypes) + 1
	body := append([]byte{byte(headerSize)}, serialTypes...)
	body = append(body, fieldBytes...)

	return append([]byte{byte(len(body)), rowID}, body...)
}

// encodeSmallVarint encodes n (which must be < 128) as a single-byte varint.
func encodeSmallVarint(n int64) []byte {
	if n < 0 || n >= 128 {
		panic("fixture serial type too large for a single-byte varint")
	}
	return []byte{byte(n)}
}

// layoutPage places cells sequentially after the header and cell-pointer
// array (placement order doesn't matter to the decoder; only the offsets
// recorded in the pointer array do).
func layoutPage(pageSize int, headerOff int, btreeType byte, cells [][]byte) []byte {
	buf := make([]byte, pageSize)
	buf[headerOff] = btreeType
	binary.BigEndian.PutUint16(buf[headerOff+3:headerOff+5], uint16(len(cells)))

	ptrOff := headerOff + 8
	cursor := ptrOff + len(cells)*2
	offsets := make([]uint16, len(cells))
	for i, cell := range cells {
		copy(buf[cursor:], cell)
		offsets[i] = uint16(cursor)
		cursor += len(cell)
	}
	contentStart := uint16(pageSize)
	if len(offsets) > 0 {
		contentStart = offsets[0]
	}
	binary.BigEndian.PutUint16(buf[headerOff+5:headerOff+7], contentStart)
	for i, off := range offsets {
		binary.BigEndian.PutUint16(buf[ptrOff+i*2:ptrOff+i*2+2], off)
	}
	return buf
}

// buildApplesFixture returns a two-page file: page 1 carries the schema
// catalog with a single "apples" table; page 2 is that table's root page,
// holding the four rows from the S4/S5 scenarios. The id column is stored
// as NULL to exercise rowid aliasing.
func buildApplesFixture() []byte {
	createSQL := "CREATE TABLE apples(id integer, name text, color text)"
	schemaCell := buildCell(1, []fixtureField{
		textField("table"),
		textField("apples"),
		textField("apples"),
		intField(2),
		textField(createSQL),
	})

	dbHeader := make([]byte, 100)
	binary.BigEndian.PutUint16(dbHeader[16:18], fixturePageSize)

	page1Body := layoutPage(fixturePageSize, 100, 0x0d, [][]byte{schemaCell})
	copy(page1Body, dbHeader)
	page1 := page1Body

	rows := []struct {
		name, color string
	}{
		{"Granny Smith", "Light Green"},
		{"Fuji", "Red"},
		{"Honeycrisp", "Blush Red"},
		{"Golden Delicious", "Yellow"},
	}
	var cells [][]byte
	for i, r := range rows {
		cells = append(cells, buildCell(byte(i+1), []fixtureField{
			nullField(),
			textField(r.name),
			textField(r.color),
		}))
	}
	page2 := layoutPage(fixturePageSize, 0, 0x0d, cells)

	return append(page1, page2...)
}
