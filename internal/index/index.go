// Package index is a read-only view over the archive's zero_index SQLite
// table: given a target imaginary part or global zero number, it finds the
// data block to start streaming from.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/psanford/sqlite3vfs"
	"github.com/psanford/sqlite3vfshttp"
)

const vfsName = "zeta-http-vfs"

var registerOnce sync.Once

// registerHTTPVFS registers the HTTP range-request VFS under vfsName, at
// most once per process. Only the first call's URL is registered; later
// calls do nothing and return nil, whatever URL they pass.
func registerHTTPVFS(url string) error {
	var regErr error
	registerOnce.Do(func() {
		regErr = sqlite3vfs.RegisterVFS(vfsName, sqlite3vfshttp.HttpVFS{URL: url})
	})
	return regErr
}

// Block is one row of the zero_index table: the data block's location and
// the bounds it covers.
type Block struct {
	FileName    string
	T           float64
	Offset      uint32
	BlockNumber uint32
	N           int64
}

// Index is a read-only connection to the archive's zero_index database.
type Index struct {
	db *sql.DB
}

// Open opens the index database. If localPath is non-empty, it's opened
// directly as a local SQLite file (used when the ZETA_DB environment
// variable is set); otherwise httpURL is read through an HTTP
// range-request VFS.
func Open(localPath, httpURL string) (*Index, error) {
	var (
		db  *sql.DB
		err error
	)
	if localPath != "" {
		db, err = sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", localPath))
	} else {
		if regErr := registerHTTPVFS(httpURL); regErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, regErr)
		}
		db, err = sql.Open("sqlite3", fmt.Sprintf("file:index.db?vfs=%s&mode=ro", vfsName))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database connection.
func (idx *Index) Close() error { return idx.db.Close() }

func (idx *Index) scanBlock(row *sql.Row) (Block, error) {
	var b Block
	err := row.Scan(&b.T, &b.N, &b.FileName, &b.Offset, &b.BlockNumber)
	if err == sql.ErrNoRows {
		return Block{}, ErrMiss
	} else if err != nil {
		return Block{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return b, nil
}

// FirstBlockForT returns the block with the largest t not exceeding target,
// across all files, tie-broken by filename then block_number.
//
// The archive's own index was built assuming "ORDER BY t ASC LIMIT 1" among
// rows with t <= target, which returns the smallest (i.e. earliest)
// qualifying block rather than the largest. That is almost certainly a bug
// in the archive tooling; this implementation intentionally does not
// replicate it and instead returns the tightest (largest t <= target)
// match.
func (idx *Index) FirstBlockForT(ctx context.Context, target float64) (Block, error) {
	row := idx.db.QueryRowContext(ctx,
		`SELECT t, N, filename, offset, block_number FROM zero_index
		 WHERE t <= ? ORDER BY t DESC, filename ASC, block_number ASC LIMIT 1`,
		target,
	)
	return idx.scanBlock(row)
}

// FirstBlockForN returns the block with the largest N not exceeding target,
// across all files, tie-broken by filename then block_number. See
// FirstBlockForT for the ORDER BY direction rationale.
func (idx *Index) FirstBlockForN(ctx context.Context, target uint64) (Block, error) {
	row := idx.db.QueryRowContext(ctx,
		`SELECT t, N, filename, offset, block_number FROM zero_index
		 WHERE N <= ? ORDER BY N DESC, filename ASC, block_number ASC LIMIT 1`,
		target,
	)
	return idx.scanBlock(row)
}

// BlocksForFile returns every block belonging to fileName, ordered by
// block_number ascending.
func (idx *Index) BlocksForFile(ctx context.Context, fileName string) ([]Block, error) {
	rows, err := idx.db.QueryContext(ctx,
		`SELECT t, N, filename, offset, block_number FROM zero_index
		 WHERE filename = ? ORDER BY block_number ASC`,
		fileName,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.T, &b.N, &b.FileName, &b.Offset, &b.BlockNumber); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return blocks, nil
}
