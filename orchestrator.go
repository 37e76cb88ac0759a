package zeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/VictorVanWeyenberg/zeta/internal/fileproc"
	"github.com/VictorVanWeyenberg/zeta/internal/index"
	"github.com/VictorVanWeyenberg/zeta/internal/lmfdb"
	"github.com/VictorVanWeyenberg/zeta/internal/manifest"
	"github.com/VictorVanWeyenberg/zeta/internal/seeker"
)

// indexDBEnv is the environment variable that, when set, points Stream at a
// local SQLite file instead of the archive's remote, HTTP-range-request
// index database.
const indexDBEnv = "ZETA_DB"

// defaultHTTPTimeout is used when Config.HTTPTimeout is zero.
const defaultHTTPTimeout = 30 * time.Second

// Config configures where Stream looks for the archive and its index. The
// zero value is not directly usable; start from DefaultConfig.
type Config struct {
	// BaseURL is the archive's root, e.g. "https://beta.lmfdb.org".
	BaseURL string
	// IndexDBPath, if set, overrides the ZETA_DB environment variable and
	// opens the index as a local SQLite file instead of over HTTP.
	IndexDBPath string
	// HTTPTimeout bounds each manifest/data-file HTTP request. Zero means
	// defaultHTTPTimeout.
	HTTPTimeout time.Duration
}

// DefaultConfig returns the Config Stream uses when none is given: the
// public LMFDB archive, with the index database path taken from the
// ZETA_DB environment variable if set.
func DefaultConfig() Config {
	return Config{BaseURL: lmfdb.DefaultBase, IndexDBPath: os.Getenv(indexDBEnv)}
}

func (c Config) httpClient() *http.Client {
	timeout := c.HTTPTimeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Stream delivers zeros matching pattern to consumer, using the public
// LMFDB archive (or a local index database, if ZETA_DB is set).
func Stream(ctx context.Context, consumer Consumer, pattern SeekPattern) error {
	return StreamWithConfig(ctx, consumer, pattern, DefaultConfig())
}

// StreamWithConfig is Stream with an explicit Config, e.g. to point at a
// mirror or a local test fixture.
func StreamWithConfig(ctx context.Context, consumer Consumer, pattern SeekPattern, cfg Config) error {
	port := newZeroPort(consumer, pattern)
	manifest.SetClient(cfg.httpClient())

	first, err := firstBlock(ctx, cfg, pattern)
	if err != nil {
		return err
	}

	entries, err := manifest.Read(ctx, lmfdb.Manifest(cfg.BaseURL))
	FetchOps.WithLabelValues("manifest", successLabel(err)).Inc()
	if err != nil {
		return translateManifestErr(err)
	}

	if first != nil {
		entries = dropBefore(entries, first.FileName)
		if len(entries) == 0 {
			return fmt.Errorf("%w: index points at %q, which is not in the manifest", ErrIndexMiss, first.FileName)
		}
		if err := processFile(ctx, cfg, entries[0], port, first); err != nil {
			return err
		}
		entries = entries[1:]
	}

	if port.IsClosed() {
		return nil
	}
	for _, entry := range entries {
		if err := processFile(ctx, cfg, entry, port, nil); err != nil {
			return err
		}
		if port.IsClosed() {
			break
		}
	}
	return nil
}

// firstBlock queries the Index for the block a seek pattern should start
// at, or nil if the pattern streams from the very beginning of the archive.
func firstBlock(ctx context.Context, cfg Config, pattern SeekPattern) (*index.Block, error) {
	switch pattern.kind {
	case patternFromT:
		idx, err := index.Open(cfg.IndexDBPath, lmfdb.IndexDB(cfg.BaseURL))
		if err != nil {
			return nil, translateIndexErr(err)
		}
		defer idx.Close()
		b, err := idx.FirstBlockForT(ctx, pattern.t)
		IndexOps.WithLabelValues("first_block_for_t", successLabel(err)).Inc()
		if err != nil {
			return nil, translateIndexErr(err)
		}
		return &b, nil
	case patternFromN:
		idx, err := index.Open(cfg.IndexDBPath, lmfdb.IndexDB(cfg.BaseURL))
		if err != nil {
			return nil, translateIndexErr(err)
		}
		defer idx.Close()
		b, err := idx.FirstBlockForN(ctx, pattern.n)
		IndexOps.WithLabelValues("first_block_for_n", successLabel(err)).Inc()
		if err != nil {
			return nil, translateIndexErr(err)
		}
		return &b, nil
	default:
		return nil, nil
	}
}

// dropBefore removes every entry that precedes fileName in manifest order.
func dropBefore(entries []manifest.FileEntry, fileName string) []manifest.FileEntry {
	for i, e := range entries {
		if e.FileName == fileName {
			return entries[i:]
		}
	}
	return nil
}

// processFile fetches and decodes one data file, optionally seeking
// straight to first's block.
func processFile(ctx context.Context, cfg Config, entry manifest.FileEntry, port *zeroPort, first *index.Block) error {
	url := lmfdb.DataFile(cfg.BaseURL, entry.FileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	resp, err := cfg.httpClient().Do(req)
	FetchOps.WithLabelValues("data_file", successLabel(err)).Inc()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %q: unexpected status %v", ErrTransport, entry.FileName, resp.Status)
	}

	proc := fileproc.New(entry.FileName, resp.Body)
	if first != nil {
		err = proc.ProcessFrom(port, *first)
	} else {
		err = proc.Process(port)
	}
	return translateFileprocErr(err)
}

func successLabel(err error) string {
	if err == nil {
		return "true"
	}
	return "false"
}

func translateManifestErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, manifest.ErrMalformed) {
		return fmt.Errorf("%w: %v", ErrManifestMalformed, err)
	}
	return fmt.Errorf("%w: %v", ErrManifestUnavailable, err)
}

func translateIndexErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, index.ErrMiss) {
		return fmt.Errorf("%w: %v", ErrIndexMiss, err)
	}
	return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
}

func translateFileprocErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, seeker.ErrTruncated) {
		return fmt.Errorf("%w: %v", ErrTruncatedStream, err)
	}
	if errors.Is(err, fileproc.ErrOverflow) {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return fmt.Errorf("%w: %v", ErrDecode, err)
}
