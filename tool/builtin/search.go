package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/loopworks/flowkit/tool"
)

const (
	defaultSearchBaseURL = "https://en.wikipedia.org/wiki/"
	maxSearchBodyBytes   = 1 << 20
	maxSearchContent     = 8000
)

// SearchSource is the payload returned by the web search tool. A lookup
// failure is reported as an empty source with the no-results sentinel, so
// the model can rephrase and try again.
type SearchSource struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// noResultsSource mirrors the sentinel payload the knowledge endpoints use.
func noResultsSource() SearchSource {
	return SearchSource{Content: "No results found"}
}

// SearchOption configures the web search tool.
type SearchOption func(*searchConfig)

type searchConfig struct {
	client  *http.Client
	baseURL string
}

// WithHTTPClient sets the HTTP client used for page fetches.
func WithHTTPClient(client *http.Client) SearchOption {
	return func(c *searchConfig) { c.client = client }
}

// WithSearchBaseURL overrides the article base URL (tests point this at a
// local server).
func WithSearchBaseURL(base string) SearchOption {
	return func(c *searchConfig) { c.baseURL = base }
}

// WikipediaSearch returns a tool fetching an encyclopedia article for a
// query and extracting its text content.
func WikipediaSearch(opts ...SearchOption) (tool.Definition, tool.Handler) {
	cfg := &searchConfig{
		client:  http.DefaultClient,
		baseURL: defaultSearchBaseURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	def := tool.Definition{
		Name:        "search_wikipedia",
		Description: "Search the internet to get up to date answers for a query.",
		Schema: tool.ObjectSchema(map[string]any{
			"query": tool.StringProperty("The topic to look up."),
		}, "query"),
	}

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		query, _ := tool.StringArg(args, "query")
		title := strings.TrimSpace(query)
		if title == "" {
			return noResultsSource(), nil
		}

		pageURL := cfg.baseURL + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
		content, err := fetchPageText(ctx, cfg.client, pageURL)
		if err != nil {
			return noResultsSource(), nil
		}
		if len(content) > maxSearchContent {
			content = content[:maxSearchContent]
		}
		return SearchSource{Title: title, Content: content, URL: pageURL}, nil
	}

	return def, handler
}

func fetchPageText(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return htmlToText(body), nil
}

// htmlToText extracts visible text from an HTML document, skipping script,
// style and noscript subtrees.
func htmlToText(data []byte) string {
	root, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return normalizeWhitespace(string(data))
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteRune(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return normalizeWhitespace(html.UnescapeString(sb.String()))
}

func normalizeWhitespace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteRune(' ')
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}
