// Package pager decodes the fixed-size page layer of a SQLite-format file:
// the 100-byte database header, B-tree page headers, and cell-pointer
// arrays. It does not interpret cell payloads; that is internal/record's job.
package pager

import (
	"encoding/binary"
	"fmt"
)

// BtreeType identifies the kind of B-tree page a PageHeader describes.
type BtreeType uint8

const (
	InteriorIndex BtreeType = 0x02
	InteriorTable BtreeType = 0x05
	LeafIndex     BtreeType = 0x0a
	LeafTable     BtreeType = 0x0d
)

func (t BtreeType) String() string {
	switch t {
	case InteriorIndex:
		return "interior-index"
	case InteriorTable:
		return "interior-table"
	case LeafIndex:
		return "leaf-index"
	case LeafTable:
		return "leaf-table"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// IsInterior reports whether pages of this type carry a right-most pointer
// and a 12-byte header instead of the 8-byte leaf form.
func (t BtreeType) IsInterior() bool {
	return t == InteriorIndex || t == InteriorTable
}

// DbHeader is the first 100 bytes of a SQLite-format file. Only the fields
// this engine acts on are kept.
type DbHeader struct {
	PageSize uint32
}

// DecodeDbHeader parses the 100-byte database header. buf must be at least
// 100 bytes.
func DecodeDbHeader(buf []byte) (DbHeader, error) {
	if len(buf) < 100 {
		return DbHeader{}, fmt.Errorf("pager: database header needs 100 bytes, got %d", len(buf))
	}
	pageSize := uint32(binary.BigEndian.Uint16(buf[16:18]))
	// SQLite encodes a 65536-byte page size as the u16 value 1.
	if pageSize == 1 {
		pageSize = 65536
	}
	if pageSize < 512 || (pageSize&(pageSize-1)) != 0 {
		return DbHeader{}, fmt.Errorf("pager: page size %d is not a power of two >= 512", pageSize)
	}
	return DbHeader{PageSize: pageSize}, nil
}

// PageHeader is the per-page B-tree header.
type PageHeader struct {
	BtreeType          BtreeType
	FirstFreeblock     uint16
	CellCount          uint16
	CellContentStart   uint16
	FragmentFreeBytes  uint8
	RightMostPointer   uint32 // only meaningful when BtreeType.IsInterior()
}

// Size returns the on-disk size of this header: 8 bytes for leaf pages, 12
// for interior pages.
func (h PageHeader) Size() int {
	if h.BtreeType.IsInterior() {
		return 12
	}
	return 8
}

func decodePageHeader(buf []byte) (PageHeader, error) {
	if len(buf) < 8 {
		return PageHeader{}, fmt.Errorf("pager: page header needs at least 8 bytes, got %d", len(buf))
	}
	h := PageHeader{
		BtreeType:         BtreeType(buf[0]),
		FirstFreeblock:    binary.BigEndian.Uint16(buf[1:3]),
		CellCount:         binary.BigEndian.Uint16(buf[3:5]),
		CellContentStart:  binary.BigEndian.Uint16(buf[5:7]),
		FragmentFreeBytes: buf[7],
	}
	switch h.BtreeType {
	case InteriorIndex, InteriorTable, LeafIndex, LeafTable:
	default:
		return PageHeader{}, fmt.Errorf("pager: undecodable btree page type 0x%02x", buf[0])
	}
	if h.BtreeType.IsInterior() {
		if len(buf) < 12 {
			return PageHeader{}, fmt.Errorf("pager: interior page header needs 12 bytes, got %d", len(buf))
		}
		h.RightMostPointer = binary.BigEndian.Uint32(buf[8:12])
	}
	return h, nil
}

// Page is one fixed-size page of a SQLite-format file, fully resident in
// memory. Page numbers are 1-based; page 1 carries the database header
// before its own PageHeader.
type Page struct {
	buffer     []byte
	pageNumber uint32
	header     PageHeader
	headerOff  int
	ptrs       []uint16
}

// Load parses buf (which must be exactly one page's worth of bytes) as page
// number pageNumber.
func Load(buf []byte, pageNumber uint32) (*Page, error) {
	headerOff := 0
	if pageNumber == 1 {
		headerOff = 100
	}
	if len(buf) < headerOff+8 {
		return nil, fmt.Errorf("pager: page %d buffer too small for a header", pageNumber)
	}
	header, err := decodePageHeader(buf[headerOff:])
	if err != nil {
		return nil, fmt.Errorf("pager: page %d: %w", pageNumber, err)
	}

	ptrArrayOff := headerOff + header.Size()
	need := ptrArrayOff + int(header.CellCount)*2
	if need > len(buf) {
		return nil, fmt.Errorf("pager: page %d cell-pointer array overruns page bounds", pageNumber)
	}
	ptrs := make([]uint16, header.CellCount)
	for i := range ptrs {
		off := ptrArrayOff + i*2
		ptrs[i] = binary.BigEndian.Uint16(buf[off : off+2])
	}

	return &Page{
		buffer:     buf,
		pageNumber: pageNumber,
		header:     header,
		headerOff:  headerOff,
		ptrs:       ptrs,
	}, nil
}

// Header returns the page's decoded B-tree header.
func (p *Page) Header() PageHeader { return p.header }

// Number returns the page's 1-based page number.
func (p *Page) Number() uint32 { return p.pageNumber }

// CellCount returns the number of cells on this page.
func (p *Page) CellCount() int { return len(p.ptrs) }

// CellOffset returns the i-th cell's start offset within the page buffer,
// in on-disk cell-pointer-array order.
func (p *Page) CellOffset(i int) (int, error) {
	if i < 0 || i >= len(p.ptrs) {
		return 0, fmt.Errorf("pager: cell index %d out of range [0,%d)", i, len(p.ptrs))
	}
	off := int(p.ptrs[i])
	if off < p.headerOff+p.header.Size() || off >= len(p.buffer) {
		return 0, fmt.Errorf("pager: cell %d offset %d out of page bounds", i, off)
	}
	return off, nil
}

// CellSlice returns the byte slice beginning at the i-th cell's offset and
// running to the end of the page buffer; callers decode from the front and
// ignore any trailing bytes belonging to later cells' payload regions.
func (p *Page) CellSlice(i int) ([]byte, error) {
	off, err := p.CellOffset(i)
	if err != nil {
		return nil, err
	}
	return p.buffer[off:], nil
}

// DbHeaderBytes returns the raw 100-byte database header. Only defined for
// page 1.
func (p *Page) DbHeaderBytes() ([]byte, error) {
	if p.pageNumber != 1 {
		return nil, fmt.Errorf("pager: database header only present on page 1, not page %d", p.pageNumber)
	}
	return p.buffer[:100], nil
}
