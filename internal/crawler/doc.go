// Package crawler drives a breadth-first crawl over a frontier.
//
// # Components
//
//   - Spider: runs fetch workers until the frontier is drained or the page
//     budget is spent
//   - ExtractLinks: turns a fetched HTML page into absolute candidate URLs
//
// # Worker states
//
// Each worker cycles through Idle, Fetching, Extracting and Enqueuing.
// When the run context is cancelled the spider is Draining: no new tasks
// are claimed and in-flight fetches run to completion or to their timeout.
// The run is Done once no worker can claim a task.
//
// # Politeness
//
// All workers share one token bucket that admits a fetch every configured
// delay, whatever the outcome of the previous fetch.
//
// # Usage
//
//	f := frontier.New(cfg.MaxPages, cfg.ExcludePrefixes)
//	f.Seed(cfg.Targets)
//	spider := crawler.NewSpider(fetcher, store, f, crawler.WithDelay(cfg.Delay))
//	stats, err := spider.Run(ctx)
package crawler
