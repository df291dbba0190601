package model

// Target is a seed of the crawl as listed in the configuration file.
type Target struct {
	// URL is the seed URL as written by the user. It is normalized by the
	// frontier when seeded.
	URL string `yaml:"url" json:"url"`

	// SourceName labels every document discovered from this seed.
	SourceName string `yaml:"source_name" json:"source_name"`
}

// CrawlTask is a single URL waiting to be fetched.
// Tasks are values and are never modified after creation.
type CrawlTask struct {
	// URL is the normalized absolute URL to fetch.
	URL string

	// SourceName is inherited from the seed the task descends from.
	SourceName string

	// BaseDomain is the host (including port, if any) of the seed URL.
	// Only links whose host contains BaseDomain are followed.
	BaseDomain string
}

// Child returns a task for url that inherits the source and scope of t.
func (t CrawlTask) Child(url string) CrawlTask {
	return CrawlTask{
		URL:        url,
		SourceName: t.SourceName,
		BaseDomain: t.BaseDomain,
	}
}
