package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/tillbook/internal/catalog"
	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
	"github.com/roach88/tillbook/internal/report"
)

// errCatalog marks failures to load the article catalog.
var errCatalog = errors.New("catalog")

// session is an open ledger plus the catalog it resolves articles with.
type session struct {
	opts    *RootOptions
	ledger  *ledger.Ledger
	catalog *catalog.Catalog // nil without --catalog
	loc     *time.Location
}

// openSession loads the catalog, when configured, and opens the ledger.
// The caller closes the session.
func openSession(opts *RootOptions) (*session, error) {
	loc, err := opts.location()
	if err != nil {
		return nil, err
	}

	s := &session{opts: opts, loc: loc}
	ledgerOpts := []ledger.Option{
		ledger.WithClock(opts.clock()),
		ledger.WithLocation(loc),
		ledger.WithLogger(opts.logger()),
	}

	if opts.Catalog == "" {
		ledgerOpts = append(ledgerOpts, ledger.WithCatalog(adhocArticles{}))
	} else {
		cat, err := catalog.Load(opts.Catalog)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errCatalog, err)
		}
		s.catalog = cat
		ledgerOpts = append(ledgerOpts, ledger.WithCatalog(cat))
		opts.logger().Debug("catalog loaded", "path", opts.Catalog, "articles", cat.Len())
	}

	l, err := ledger.Open(opts.Ledger, ledgerOpts...)
	if err != nil {
		return nil, err
	}
	s.ledger = l
	return s, nil
}

// adhocArticles resolves every product name to a price-less article. It
// stands in for the catalog when none is configured.
type adhocArticles struct{}

func (adhocArticles) FindArticle(name string) (*pos.Article, bool) {
	return &pos.Article{Name: name}, true
}

func (s *session) Close() error {
	return s.ledger.Close()
}

// lastPeriod replays the ledger and returns the last begun period.
func (s *session) lastPeriod() (*report.LastPeriod, error) {
	last := &report.LastPeriod{}
	if err := s.ledger.Replay(last); err != nil {
		return nil, fmt.Errorf("find last period: %w", err)
	}
	return last, nil
}

// timestamp parses an --at value in the ledger's zone, or reads the clock.
func (s *session) timestamp(at string) (time.Time, error) {
	if strings.TrimSpace(at) == "" {
		return s.opts.clock().Now().In(s.loc), nil
	}
	t, err := ledger.ParseTimestamp(at, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want YYYY-MM-DDTHH:MM[:SS]", at)
	}
	return t, nil
}

// failOpen reports an openSession error.
func failOpen(f *OutputFormatter, err error) error {
	if errors.Is(err, errCatalog) {
		return f.Fail(ExitCommandError, ErrCodeCatalog, "load catalog", err)
	}
	return f.FailLedger("open ledger", err)
}
