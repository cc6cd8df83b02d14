package ledger

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/tillbook/internal/pos"
)

// ArticleFinder resolves product names to catalog articles during replay.
// Implementations must be pure lookups.
type ArticleFinder interface {
	FindArticle(name string) (*pos.Article, bool)
}

// Ledger owns one ledger file for its lifetime.
//
// All write methods serialize on a single mutex so lines never interleave.
// Replay takes no lock: it reads through its own offset and sees the file
// length as of the call.
type Ledger struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	closed atomic.Bool

	catalog ArticleFinder
	clock   Clock
	loc     *time.Location
	logger  *slog.Logger
	sync    bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCatalog sets the article lookup used when replaying sales.
// Without a catalog every sale replays with a nil article.
func WithCatalog(c ArticleFinder) Option {
	return func(l *Ledger) { l.catalog = c }
}

// WithClock sets the clock used for ModifyCash and StaffBillPay timestamps.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithLocation sets the zone in which timestamps are written and read.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithSync controls whether every append is followed by fsync.
// Defaults to true.
func WithSync(enabled bool) Option {
	return func(l *Ledger) { l.sync = enabled }
}

// Open opens the ledger at path, creating it if it does not exist.
// An empty file gets the header line.
func Open(path string, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		path:   path,
		clock:  SystemClock{},
		loc:    time.Local,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sync:   true,
	}
	for _, opt := range opts {
		opt(l)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, storageError(err, "open ledger %s", path)
	}
	l.file = f

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, storageError(err, "stat ledger %s", path)
	}
	if info.Size() == 0 {
		if err := l.WriteHeader(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return l, nil
}

// Path returns the file path the ledger was opened with.
func (l *Ledger) Path() string {
	return l.path
}

// Close releases the file. Subsequent calls return nil.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed.Swap(true) {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return storageError(err, "close ledger %s", l.path)
	}
	return nil
}

// WriteHeader appends the header line. Open calls it for new files.
func (l *Ledger) WriteHeader() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked("header", HeaderLine)
}

// appendLocked writes one complete line at the end of the file.
// Callers hold l.mu.
func (l *Ledger) appendLocked(kind, line string) error {
	if l.closed.Load() {
		return storageError(os.ErrClosed, "append to ledger %s", l.path)
	}

	if _, err := l.file.WriteString(line); err != nil {
		return storageError(err, "append to ledger %s", l.path)
	}
	if l.sync {
		if err := l.file.Sync(); err != nil {
			return storageError(err, "sync ledger %s", l.path)
		}
	}

	l.logger.Debug("ledger append", "kind", kind, "bytes", len(line))
	return nil
}

// Replay streams the whole ledger into v. See Replayer.Replay.
func (l *Ledger) Replay(v Visitor) error {
	if l.closed.Load() {
		return storageError(os.ErrClosed, "replay ledger %s", l.path)
	}

	info, err := l.file.Stat()
	if err != nil {
		return storageError(err, "stat ledger %s", l.path)
	}

	r := Replayer{Catalog: l.catalog, Location: l.loc}
	rows, err := r.replay(io.NewSectionReader(l.file, 0, info.Size()), v)
	if err != nil {
		l.logger.Debug("ledger replay failed", "rows", rows, "error", err)
		return err
	}
	l.logger.Debug("ledger replay", "rows", rows, "bytes", info.Size())
	return nil
}
