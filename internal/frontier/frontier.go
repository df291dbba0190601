package frontier

import (
	"context"
	"strings"
	"sync"

	"github.com/nao1215/corpuscrawl/internal/model"
)

// Frontier is a breadth-first crawl frontier with a page budget.
// The zero value is not usable; create one with New.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	// queue holds tasks in discovery order. head is the index of the oldest
	// task; popped slots are released when the queue is compacted.
	queue []model.CrawlTask
	head  int

	// visited holds every URL handed out for fetching.
	visited map[string]struct{}

	// pagesCrawled counts successful fetches.
	pagesCrawled int

	// inFlight counts tasks claimed but not completed yet.
	inFlight int

	maxPages        int
	excludePrefixes []string
}

// Stats is a snapshot of the frontier state.
type Stats struct {
	// Queued is the number of tasks waiting, visited or not.
	Queued int

	// Visited is the number of distinct URLs handed out.
	Visited int

	// PagesCrawled is the number of successful fetches recorded.
	PagesCrawled int

	// InFlight is the number of claimed tasks not completed yet.
	InFlight int
}

// New creates a Frontier that stops after maxPages successes and never
// enqueues URLs starting with one of excludePrefixes. Empty prefixes are
// ignored.
func New(maxPages int, excludePrefixes []string) *Frontier {
	f := &Frontier{
		visited:  make(map[string]struct{}),
		maxPages: maxPages,
	}
	for _, prefix := range excludePrefixes {
		if prefix != "" {
			f.excludePrefixes = append(f.excludePrefixes, prefix)
		}
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Seed enqueues the targets in order. Each URL is normalized and its base
// domain computed from its host. Seeds are not checked against the visited
// set; seeds without a parsable host or matching an excluded prefix are
// skipped.
func (f *Frontier) Seed(targets []model.Target) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, target := range targets {
		normalized := Normalize(target.URL)
		domain, err := BaseDomain(normalized)
		if err != nil {
			continue
		}
		if f.isExcluded(normalized) {
			continue
		}
		f.push(model.CrawlTask{
			URL:        normalized,
			SourceName: target.SourceName,
			BaseDomain: domain,
		})
	}
	f.cond.Broadcast()
}

// Next pops the oldest task. It returns false when the queue is empty or
// the page budget has been reached.
func (f *Frontier) Next() (model.CrawlTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.budgetReached() {
		return model.CrawlTask{}, false
	}
	return f.pop()
}

// MarkVisited records url as visited. It returns false if url was already
// visited, in which case the caller must not fetch it.
func (f *Frontier) MarkVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.markVisited(url)
}

// Propose offers a link found on the page of task. candidate is resolved
// against sourceURL and normalized; it is enqueued as a child of task only
// when its host contains task.BaseDomain, it has not been visited and it
// does not start with an excluded prefix. Malformed candidates are dropped
// silently. Propose reports whether the candidate was enqueued.
func (f *Frontier) Propose(candidate, sourceURL string, task model.CrawlTask) bool {
	normalized, u, err := resolve(candidate, sourceURL)
	if err != nil {
		return false
	}
	if !strings.Contains(u.Host, task.BaseDomain) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, seen := f.visited[normalized]; seen {
		return false
	}
	if f.isExcluded(normalized) {
		return false
	}

	f.push(task.Child(normalized))
	f.cond.Signal()
	return true
}

// RecordSuccess counts one successfully fetched page.
func (f *Frontier) RecordSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pagesCrawled++
	f.cond.Broadcast()
}

// Claim hands out the next unvisited task for fetching. It pops tasks in
// FIFO order, drops those already visited, marks the chosen URL visited and
// reserves one budget slot, all under one lock. The caller must call
// Complete exactly once for every successful Claim.
//
// Claim blocks while the queue is empty but claims are in flight, and while
// the whole remaining budget is reserved. It returns false once the queue
// is drained with nothing in flight, the budget is reached, or ctx is done.
func (f *Frontier) Claim(ctx context.Context) (model.CrawlTask, bool) {
	stop := context.AfterFunc(ctx, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cond.Broadcast()
	})
	defer stop()

	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if ctx.Err() != nil || f.budgetReached() {
			return model.CrawlTask{}, false
		}

		if f.pagesCrawled+f.inFlight < f.maxPages {
			for {
				task, ok := f.pop()
				if !ok {
					break
				}
				if f.markVisited(task.URL) {
					f.inFlight++
					return task, true
				}
			}
		}

		if f.inFlight == 0 {
			return model.CrawlTask{}, false
		}
		f.cond.Wait()
	}
}

// Complete releases a reservation made by Claim. A successful fetch counts
// towards the page budget; a failed one frees its slot for another task.
func (f *Frontier) Complete(success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inFlight > 0 {
		f.inFlight--
	}
	if success {
		f.pagesCrawled++
	}
	f.cond.Broadcast()
}

// PagesCrawled returns the number of successful fetches recorded.
func (f *Frontier) PagesCrawled() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pagesCrawled
}

// MaxPages returns the page budget.
func (f *Frontier) MaxPages() int {
	return f.maxPages
}

// Stats returns a snapshot of the frontier state.
func (f *Frontier) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Stats{
		Queued:       len(f.queue) - f.head,
		Visited:      len(f.visited),
		PagesCrawled: f.pagesCrawled,
		InFlight:     f.inFlight,
	}
}

// push appends a task. The caller holds f.mu.
func (f *Frontier) push(task model.CrawlTask) {
	f.queue = append(f.queue, task)
}

// pop removes the oldest task. The caller holds f.mu.
func (f *Frontier) pop() (model.CrawlTask, bool) {
	if f.head >= len(f.queue) {
		return model.CrawlTask{}, false
	}

	task := f.queue[f.head]
	f.queue[f.head] = model.CrawlTask{}
	f.head++

	// Compact once the consumed prefix dominates the slice.
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append([]model.CrawlTask(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return task, true
}

// markVisited is the check-and-insert on the visited set. The caller holds f.mu.
func (f *Frontier) markVisited(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	return true
}

// budgetReached reports whether no more pages may be crawled. The caller holds f.mu.
func (f *Frontier) budgetReached() bool {
	return f.pagesCrawled >= f.maxPages
}

// isExcluded reports whether url starts with an excluded prefix.
func (f *Frontier) isExcluded(url string) bool {
	for _, prefix := range f.excludePrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}
