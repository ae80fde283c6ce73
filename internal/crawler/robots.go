package crawler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsPolicy decides whether a URL path may be crawled according to the
// site's robots.txt. The zero value allows everything; a crawl that does
// not opt in to robots enforcement carries the permissive policy.
type RobotsPolicy struct {
	// group is the robots.txt rule group matched for our User-Agent.
	// nil means no restrictions apply.
	group *robotstxt.Group
}

// AllowAllRobots is the policy applied when robots enforcement is off or
// the robots.txt could not be retrieved.
func AllowAllRobots() *RobotsPolicy {
	return &RobotsPolicy{}
}

// FetchRobotsPolicy retrieves and parses <root>/robots.txt once, returning
// the rule group for the given User-Agent. Any failure (unreachable file,
// non-200, unparseable content) fails open: the crawl proceeds as if the
// site had no robots.txt.
func FetchRobotsPolicy(ctx context.Context, client *http.Client, root *url.URL, userAgent string) *RobotsPolicy {
	robotsURL := &url.URL{Scheme: root.Scheme, Host: root.Host, Path: "/robots.txt"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return AllowAllRobots()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return AllowAllRobots()
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return AllowAllRobots()
	}

	return &RobotsPolicy{group: data.FindGroup(userAgent)}
}

// Allows reports whether the policy permits fetching rawURL. URLs that do
// not parse are permitted here; scope classification already rejects them.
func (p *RobotsPolicy) Allows(rawURL string) bool {
	if p == nil || p.group == nil {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return p.group.Test(path)
}
