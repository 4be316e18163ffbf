// Package engine ties the page/record/schema decoders and the SQL front
// end together into the single entry point a CLI (or any other caller)
// drives: open a file, answer meta-commands, or run a SELECT.
package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/relnoir/sqlitelite/internal/pager"
	"github.com/relnoir/sqlitelite/internal/schema"
)

// Engine owns one open database file for the duration of a single query, a
// single-threaded, synchronous resource model.
type Engine struct {
	file     *os.File
	resMgr   ResourceManager
	pageSize uint32
	catalog  *schema.Catalog
	opts     engineOptions
}

// Open opens path, reads the 100-byte database header, loads page 1, and
// builds the schema catalog.
func Open(path string, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newIOError("open", err)
	}

	e := &Engine{file: f, opts: o}
	e.resMgr.Add(f)

	header := make([]byte, 100)
	if err := e.readAt(header, 0, "read_db_header"); err != nil {
		e.resMgr.Close()
		return nil, err
	}
	dbHeader, err := pager.DecodeDbHeader(header)
	if err != nil {
		e.resMgr.Close()
		return nil, classifyDecodeError("decode_db_header", err)
	}
	e.pageSize = dbHeader.PageSize
	o.debugf("opened %s: page_size=%d", path, e.pageSize)

	page1, err := e.readPage(1)
	if err != nil {
		e.resMgr.Close()
		return nil, err
	}

	cat, err := schema.Build(page1)
	if err != nil {
		if o.validation == ValidationStrict {
			e.resMgr.Close()
			return nil, newSchemaError("build_catalog", err)
		}
		// ValidationLenient: fall back to an empty catalog rather than
		// failing the whole engine open on a malformed schema row.
		o.debugf("schema build failed under lenient validation, continuing with an empty catalog: %v", err)
		cat = &schema.Catalog{}
	}
	e.catalog = cat
	o.debugf("schema catalog built: %d tables", cat.Count())

	return e, nil
}

// Close releases the open file handle.
func (e *Engine) Close() error {
	return e.resMgr.Close()
}

// readPage loads page number n in full. Page 1 spans bytes [0, pageSize);
// page n > 1 spans [(n-1)*pageSize, n*pageSize).
func (e *Engine) readPage(n uint32) (*pager.Page, error) {
	offset := int64(n-1) * int64(e.pageSize)
	buf := make([]byte, e.pageSize)
	if err := e.readAt(buf, offset, fmt.Sprintf("read_page_%d", n)); err != nil {
		return nil, err
	}
	p, err := pager.Load(buf, n)
	if err != nil {
		return nil, classifyDecodeError(fmt.Sprintf("load_page_%d", n), err)
	}
	return p, nil
}

// readAt performs a positioned read, honoring WithReadTimeout when set. The
// underlying ReadAt is not itself cancellable; on timeout this returns
// before the syscall completes rather than aborting it.
func (e *Engine) readAt(buf []byte, offset int64, op string) error {
	if e.opts.readTimeout <= 0 {
		if _, err := e.file.ReadAt(buf, offset); err != nil {
			return newIOError(op, err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.readTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := e.file.ReadAt(buf, offset)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return newIOError(op, err)
		}
		return nil
	case <-ctx.Done():
		return newIOError(op, fmt.Errorf("read timed out after %s", e.opts.readTimeout))
	}
}

// PageSize returns the database's page size, for the .dbinfo meta-command.
func (e *Engine) PageSize() uint32 { return e.pageSize }

// TableCount returns the number of schema rows, for the .dbinfo meta-command.
func (e *Engine) TableCount() int { return e.catalog.Count() }

// TableNames returns every user table name, sorted ascending, for the
//.tables meta-command.
func (e *Engine) TableNames() []string { return e.catalog.TableNames() }
