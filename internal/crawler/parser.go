package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts links from HTML content. We use golang.org/x/net/html
// rather than regex because it correctly handles the malformed HTML common
// on the web: a broken page yields whatever links the tokenizer recovers,
// never an error visible to the crawl.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative hrefs.
	baseURL *url.URL
}

// ParseResult contains the information extracted from an HTML page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Links contains every anchor href, resolved to absolute form against
	// the page URL, in document order. No scope filtering is applied here;
	// that is the caller's decision against the crawl's root domain.
	Links []string
}

// NewParser creates an HTML parser for a page at the given URL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse walks the HTML document and collects the title and anchor links.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Links: make([]string, 0)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if resolved := p.resolveURL(href); resolved != "" {
						result.Links = append(result.Links, resolved)
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return result, nil
}

// ExtractLinks parses htmlContent and returns every anchor link resolved
// to absolute form against baseURL. Empty input, an unusable base URL, or
// unparseable content yield an empty slice; there is no failure path.
func ExtractLinks(htmlContent, baseURL string) []string {
	if htmlContent == "" {
		return nil
	}

	parser, err := NewParser(baseURL)
	if err != nil {
		return nil
	}

	result, err := parser.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	return result.Links
}

// resolveURL resolves an href against the page URL. Non-navigational
// schemes and bare fragments resolve to the empty string.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return p.baseURL.ResolveReference(u).String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
