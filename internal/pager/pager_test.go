package pager

import (
	"encoding/binary"
	"testing"
)

func makeDbHeader(pageSize uint16) []byte {
	buf := make([]byte, 100)
	binary.BigEndian.PutUint16(buf[16:18], pageSize)
	return buf
}

func TestDecodeDbHeader(t *testing.T) {
	tests := []struct {
		name      string
		pageSize  uint16
		wantErr   bool
		wantSize  uint32
	}{
		{name: "4096 page size", pageSize: 4096, wantSize: 4096},
		{name: "512 minimum", pageSize: 512, wantSize: 512},
		{name: "65536 encoded as 1", pageSize: 1, wantSize: 65536},
		{name: "not a power of two", pageSize: 4097, wantErr: true},
		{name: "below minimum", pageSize: 256, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := DecodeDbHeader(makeDbHeader(tt.pageSize))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for page size %d", tt.pageSize)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h.PageSize != tt.wantSize {
				t.Errorf("PageSize = %d, want %d", h.PageSize, tt.wantSize)
			}
		})
	}
}

func TestDecodeDbHeaderTooShort(t *testing.T) {
	if _, err := DecodeDbHeader(make([]byte, 50)); err == nil {
		t.Fatal("expected error for a truncated header")
	}
}

// buildLeafTablePage assembles a minimal LeafTable page with the given cell
// offsets already written into a cell-pointer array; cell bytes themselves
// are left as zero filler since this test only exercises header/pointer
// decoding.
func buildLeafTablePage(pageSize int, page1 bool, cellOffsets []uint16) []byte {
	buf := make([]byte, pageSize)
	headerOff := 0
	if page1 {
		headerOff = 100
	}
	buf[headerOff] = byte(LeafTable)
	binary.BigEndian.PutUint16(buf[headerOff+3:headerOff+5], uint16(len(cellOffsets)))
	binary.BigEndian.PutUint16(buf[headerOff+5:headerOff+7], uint16(pageSize-len(cellOffsets)*4))
	ptrOff := headerOff + 8
	for i, off := range cellOffsets {
		binary.BigEndian.PutUint16(buf[ptrOff+i*2:ptrOff+i*2+2], off)
	}
	return buf
}

func TestLoadLeafPageHeaderAtByteZero(t *testing.T) {
	buf := buildLeafTablePage(512, false, []uint16{100, 120})
	p, err := Load(buf, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Header().BtreeType != LeafTable {
		t.Errorf("BtreeType = %v, want LeafTable", p.Header().BtreeType)
	}
	if p.CellCount() != 2 {
		t.Errorf("CellCount = %d, want 2", p.CellCount())
	}
	off, err := p.CellOffset(0)
	if err != nil {
		t.Fatalf("CellOffset(0): %v", err)
	}
	if off != 100 {
		t.Errorf("CellOffset(0) = %d, want 100", off)
	}
}

func TestLoadPage1HeaderStartsAt100(t *testing.T) {
	buf := buildLeafTablePage(512, true, []uint16{200})
	p, err := Load(buf, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.CellCount() != 1 {
		t.Errorf("CellCount = %d, want 1", p.CellCount())
	}
	off, err := p.CellOffset(0)
	if err != nil {
		t.Fatalf("CellOffset(0): %v", err)
	}
	// Cell offsets are measured from byte 0 of the buffer even on page 1.
	if off != 200 {
		t.Errorf("CellOffset(0) = %d, want 200 (measured from byte 0)", off)
	}
	if _, err := p.DbHeaderBytes(); err != nil {
		t.Errorf("DbHeaderBytes on page 1: %v", err)
	}
}

func TestDbHeaderBytesOnlyOnPage1(t *testing.T) {
	buf := buildLeafTablePage(512, false, nil)
	p, err := Load(buf, 3)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := p.DbHeaderBytes(); err == nil {
		t.Fatal("expected DbHeaderBytes to fail on a non-page-1 page")
	}
}

func TestCellOffsetOutOfRangeIsFatal(t *testing.T) {
	buf := buildLeafTablePage(512, false, []uint16{1})
	p, err := Load(buf, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := p.CellOffset(0); err == nil {
		t.Fatal("expected an out-of-bounds cell offset to be fatal")
	}
}

func TestInteriorPageHeaderIs12Bytes(t *testing.T) {
	buf := make([]byte, 512)
	buf[0] = byte(InteriorTable)
	binary.BigEndian.PutUint16(buf[3:5], 0)
	binary.BigEndian.PutUint16(buf[5:7], 512)
	binary.BigEndian.PutUint32(buf[8:12], 9)
	p, err := Load(buf, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Header().RightMostPointer != 9 {
		t.Errorf("RightMostPointer = %d, want 9", p.Header().RightMostPointer)
	}
}
