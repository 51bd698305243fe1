package libs

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const duckDuckGoURL = "https://duckduckgo.com/html/"

// WebSearcher scrapes DuckDuckGo's HTML endpoint for result snippets. It
// backs the agent's campus_search tool for questions the student database
// cannot answer.
type WebSearcher struct {
	client  *http.Client
	baseURL string
}

func NewWebSearcher() *WebSearcher {
	return &WebSearcher{
		client:  &http.Client{Timeout: 8 * time.Second},
		baseURL: duckDuckGoURL,
	}
}

// Search returns up to five "title: snippet" lines, or "" when nothing
// useful came back. Failures are swallowed; the agent treats an empty
// result as no information.
func (w *WebSearcher) Search(query string) string {
	req, err := http.NewRequest("GET", w.baseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible)")

	resp, err := w.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	var results []string
	// DuckDuckGo structure can change, keep the selector conservative
	doc.Find(".result__body").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 5 {
			return false
		}
		title := strings.TrimSpace(s.Find(".result__a").Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())
		if title == "" && snippet == "" {
			return true
		}
		results = append(results, fmt.Sprintf("- %s: %s", title, snippet))
		return true
	})

	if len(results) == 0 {
		return ""
	}
	out := strings.Join(results, "\n")
	if len(out) > 2000 {
		out = out[:2000] + "..."
	}
	return out
}
