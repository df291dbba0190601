package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/corpuscrawl/internal/frontier"
	"github.com/nao1215/corpuscrawl/internal/model"
)

// Fetcher fetches one URL and classifies the result.
type Fetcher interface {
	Fetch(ctx context.Context, url string) model.FetchOutcome
}

// DocumentSink persists fetched pages.
type DocumentSink interface {
	InsertRaw(ctx context.Context, doc *model.RawDocument) error
}

// State is the phase a worker is in.
type State int

// Worker states, in the order a successful task moves through them.
const (
	StateIdle State = iota
	StateFetching
	StateExtracting
	StateEnqueuing
	StateDraining
	StateDone
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateExtracting:
		return "extracting"
	case StateEnqueuing:
		return "enqueuing"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// StateObserver is called on every worker state change. It is called from
// worker goroutines and must be safe for concurrent use.
type StateObserver func(worker int, state State, url string)

// Stats summarizes a crawl run.
type Stats struct {
	// RunID identifies the run; it is stored with every document.
	RunID string

	// PagesSaved is the number of pages fetched and stored.
	PagesSaved int

	// Fetched is the number of fetch attempts.
	Fetched int

	// HTTPErrors, NetworkErrors and Timeouts count failed fetches by kind.
	HTTPErrors    int
	NetworkErrors int
	Timeouts      int

	// StoreErrors counts pages fetched but not stored.
	StoreErrors int

	// LinksEnqueued counts discovered links accepted by the frontier.
	LinksEnqueued int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Spider crawls the tasks of a frontier with a pool of workers.
type Spider struct {
	fetcher  Fetcher
	sink     DocumentSink
	frontier *frontier.Frontier

	workers  int
	delay    time.Duration
	logger   *slog.Logger
	progress io.Writer
	runID    string
	now      func() time.Time
	observer StateObserver

	mu    sync.Mutex
	stats Stats
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithWorkers sets the number of concurrent fetch workers.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDelay sets the minimum interval between two fetches.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithProgress sets where per-fetch progress lines are written.
// Defaults to io.Discard.
func WithProgress(w io.Writer) SpiderOption {
	return func(s *Spider) {
		s.progress = w
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) SpiderOption {
	return func(s *Spider) {
		s.runID = id
	}
}

// WithClock sets the clock used for CrawledAt timestamps.
func WithClock(now func() time.Time) SpiderOption {
	return func(s *Spider) {
		s.now = now
	}
}

// WithStateObserver registers a callback for worker state changes.
func WithStateObserver(observer StateObserver) SpiderOption {
	return func(s *Spider) {
		s.observer = observer
	}
}

// NewSpider creates a Spider over a seeded frontier.
func NewSpider(fetcher Fetcher, sink DocumentSink, f *frontier.Frontier, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		sink:     sink,
		frontier: f,
		workers:  1,
		logger:   slog.Default(),
		progress: io.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	return s
}

// RunID returns the identifier stored with every document of this run.
func (s *Spider) RunID() string {
	return s.runID
}

// Run crawls until the frontier is drained, the page budget is spent or
// ctx is cancelled. Per-page failures are logged and counted, never
// returned. The returned error is ctx.Err() when the run was cancelled.
func (s *Spider) Run(ctx context.Context) (Stats, error) {
	start := time.Now()

	limit := rate.Inf
	if s.delay > 0 {
		limit = rate.Every(s.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	s.logger.Info("crawl started",
		"run_id", s.runID,
		"workers", s.workers,
		"delay", s.delay,
		"max_pages", s.frontier.MaxPages(),
	)

	var g errgroup.Group
	for id := range s.workers {
		g.Go(func() error {
			s.work(ctx, id, limiter)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	s.mu.Lock()
	s.stats.RunID = s.runID
	s.stats.Elapsed = time.Since(start)
	stats := s.stats
	s.mu.Unlock()

	s.logger.Info("crawl finished",
		"run_id", s.runID,
		"pages_saved", stats.PagesSaved,
		"fetched", stats.Fetched,
		"elapsed", stats.Elapsed,
	)

	return stats, ctx.Err()
}

// work claims and crawls tasks until the frontier has nothing left.
func (s *Spider) work(ctx context.Context, id int, limiter *rate.Limiter) {
	logger := s.logger.With("worker", id)
	logger.Debug("worker started")

	for {
		s.transition(id, StateIdle, "")

		task, ok := s.frontier.Claim(ctx)
		if !ok {
			break
		}
		s.crawl(ctx, id, task, limiter, logger)
	}

	if ctx.Err() != nil {
		s.transition(id, StateDraining, "")
	}
	s.transition(id, StateDone, "")
	logger.Debug("worker stopped")
}

// crawl fetches one claimed task, stores it and proposes its links.
// The claim is always completed, whatever happens.
func (s *Spider) crawl(ctx context.Context, id int, task model.CrawlTask, limiter *rate.Limiter, logger *slog.Logger) {
	saved := false
	defer func() { s.frontier.Complete(saved) }()

	if err := limiter.Wait(ctx); err != nil {
		logger.Debug("task abandoned", "url", task.URL, "reason", err)
		return
	}

	// In-flight work finishes on cancellation; the fetch timeout bounds it.
	taskCtx := context.WithoutCancel(ctx)

	s.transition(id, StateFetching, task.URL)
	fmt.Fprintf(s.progress, "[%d/%d] Downloading: %s\n", s.frontier.PagesCrawled()+1, s.frontier.MaxPages(), task.URL)

	outcome := s.fetcher.Fetch(taskCtx, task.URL)
	s.record(func(st *Stats) { st.Fetched++ })

	switch outcome.Kind {
	case model.OutcomeSuccess:
	case model.OutcomeHTTPError:
		fmt.Fprintf(s.progress, "Skipping %s: Status %d\n", task.URL, outcome.StatusCode)
		logger.Info("page skipped", "url", task.URL, "status", outcome.StatusCode)
		s.record(func(st *Stats) { st.HTTPErrors++ })
		return
	case model.OutcomeTimeout:
		fmt.Fprintf(s.progress, "Error processing %s: %v\n", task.URL, outcome.Err)
		logger.Warn("fetch timed out", "url", task.URL, "error", outcome.Err)
		s.record(func(st *Stats) { st.Timeouts++ })
		return
	default:
		fmt.Fprintf(s.progress, "Error processing %s: %v\n", task.URL, outcome.Err)
		logger.Warn("fetch failed", "url", task.URL, "error", outcome.Err)
		s.record(func(st *Stats) { st.NetworkErrors++ })
		return
	}

	doc := model.NewRawDocument(task, outcome.Body, s.runID, s.now())
	if err := s.sink.InsertRaw(taskCtx, doc); err != nil {
		logger.Warn("failed to store page", "url", task.URL, "error", err)
		s.record(func(st *Stats) { st.StoreErrors++ })
		return
	}
	saved = true
	s.record(func(st *Stats) { st.PagesSaved++ })
	if logger.Enabled(taskCtx, slog.LevelDebug) {
		logger.Debug("page saved", "url", task.URL, "source", task.SourceName, "title", Title(outcome.Body))
	}

	s.transition(id, StateExtracting, task.URL)
	enqueued := 0
	for link := range ExtractLinks(outcome.Body, task.URL) {
		s.transition(id, StateEnqueuing, link)
		if s.frontier.Propose(link, task.URL, task) {
			enqueued++
		}
	}
	s.record(func(st *Stats) { st.LinksEnqueued += enqueued })
	logger.Debug("links proposed", "url", task.URL, "enqueued", enqueued)
}

// record applies update to the run statistics.
func (s *Spider) record(update func(*Stats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.stats)
}

// transition notifies the observer of a state change.
func (s *Spider) transition(worker int, state State, url string) {
	if s.observer != nil {
		s.observer(worker, state, url)
	}
}
