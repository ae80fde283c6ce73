package model

// CrawlRequest is the body of a POST /crawl call. Field names match the
// public API contract.
type CrawlRequest struct {
	// URL is the seed URL the crawl starts from. It must carry both a
	// scheme and an authority.
	URL string `json:"url"`

	// RespectRobotsTxt enables robots.txt enforcement for this crawl.
	// The engine fetches <root>/robots.txt once at task setup and the
	// frontier rejects paths disallowed for the configured User-Agent.
	RespectRobotsTxt bool `json:"respect_robots_txt"`

	// MaxURLs caps how many pages the crawl will fetch. Zero means the
	// server default; negative values are rejected.
	MaxURLs int `json:"max_urls"`
}

// CrawlResponse is returned when a crawl task has been accepted.
type CrawlResponse struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}
