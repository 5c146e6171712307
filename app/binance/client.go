package binance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/launch-comb/app/announcement"
	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
)

const (
	catalogPath = "/bapi/composite/v1/public/cms/article/catalog/list/query"
	detailPath  = "/bapi/composite/v1/public/cms/article/detail/query"

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodySize = 10 * 1024 * 1024
)

// Client talks to the public CMS endpoints of the announcement site. It keeps
// a cookie jar so that cookies set during Warmup are sent with API calls.
type Client struct {
	siteURL    string
	locale     string
	catalogID  int
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientOption func(*Client)

func NewClient(siteURL string, opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	c := &Client{
		siteURL:   strings.TrimRight(siteURL, "/"),
		locale:    announcement.DefaultLocale,
		catalogID: announcement.DefaultCatalogID,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client. A client without a jar gets one.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.httpClient.Jar
		}
		c.httpClient = hc
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithSource takes locale and catalog from a source description.
func WithSource(sourceConfig *announcement.SourceConfig) ClientOption {
	return func(c *Client) {
		c.locale = sourceConfig.Locale
		c.catalogID = sourceConfig.CatalogID
	}
}

func (c *Client) listPageURL() string {
	return fmt.Sprintf("%s/%s/support/announcement/list/%d", c.siteURL, c.locale, c.catalogID)
}

// Warmup visits the public pages a browser would load first. Failures are
// logged at debug level and otherwise ignored.
func (c *Client) Warmup(ctx context.Context) {
	pages := []string{
		c.siteURL + "/",
		c.siteURL + "/" + c.locale,
		c.listPageURL(),
	}

	for _, page := range pages {
		body, err := c.get(ctx, page, "text/html,application/xhtml+xml,*/*")
		if err != nil {
			c.logger.Debug("Warmup request failed", "url", page, "error", err)
			continue
		}
		if len(body) > 0 {
			c.logger.Debug("Warmup request completed", "url", page, "size", len(body))
		}
	}
}

// FetchCatalog returns the catalog page in feed order.
func (c *Client) FetchCatalog(ctx context.Context, catalogID, pageNo, pageSize int) ([]announcement.Article, error) {
	query := url.Values{}
	query.Set("catalogId", strconv.Itoa(catalogID))
	query.Set("pageNo", strconv.Itoa(pageNo))
	query.Set("pageSize", strconv.Itoa(pageSize))

	body, err := c.get(ctx, c.siteURL+catalogPath+"?"+query.Encode(), "")
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %d: %v", announcement.ErrFeedUnavailable, catalogID, err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: catalog %d: response is not JSON", announcement.ErrFeedUnavailable, catalogID)
	}

	list := gjson.GetBytes(body, "data.articles")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: catalog %d: data.articles missing", announcement.ErrFeedUnavailable, catalogID)
	}

	var articles []announcement.Article
	list.ForEach(func(_, value gjson.Result) bool {
		articles = append(articles, announcement.Article{
			Code:  value.Get("code").String(),
			Title: value.Get("title").String(),
		})
		return true
	})

	c.logger.Debug("Catalog fetched", "catalog_id", catalogID, "articles", len(articles))

	return articles, nil
}

// FetchDetail returns the raw JSON text held in data.contentJson.
func (c *Client) FetchDetail(ctx context.Context, code string) (string, error) {
	query := url.Values{}
	query.Set("articleCode", code)

	body, err := c.get(ctx, c.siteURL+detailPath+"?"+query.Encode(), "")
	if err != nil {
		return "", fmt.Errorf("%w: article %s: %v", announcement.ErrFeedUnavailable, code, err)
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: article %s: response is not JSON", announcement.ErrFeedUnavailable, code)
	}

	content := gjson.GetBytes(body, "data.contentJson")
	switch content.Type {
	case gjson.Null:
		return "", fmt.Errorf("%w: article %s", announcement.ErrMissingBody, code)
	case gjson.String:
		if content.Str == "" {
			return "", fmt.Errorf("%w: article %s", announcement.ErrMissingBody, code)
		}
		return content.Str, nil
	default:
		return "", fmt.Errorf("%w: article %s: contentJson is %s", announcement.ErrMalformedDocument, code, content.Type)
	}
}

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8")
	req.Header.Set("Referer", c.listPageURL())
	req.Header.Set("clienttype", "web")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
