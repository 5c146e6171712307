package api

import (
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/launch-comb/app/announcement"
)

func NewHandler(store StateReader, sourceConfig *announcement.SourceConfig, baseURL, version string) *Handler {
	return &Handler{
		store:        store,
		sourceConfig: sourceConfig,
		normalizer:   announcement.NewNormalizer(sourceConfig.Location()),
		generator:    announcement.NewGenerator(),
		baseURL:      strings.TrimRight(baseURL, "/"),
		version:      version,
	}
}

// notifiedFacts rebuilds facts from the persisted keys, newest launch first.
// Keys that do not parse are skipped.
func (h *Handler) notifiedFacts(c *gin.Context) ([]announcement.NotifiedFact, error) {
	seen, err := h.store.Load(c.Request.Context())
	if err != nil {
		return nil, err
	}

	facts := make([]announcement.NotifiedFact, 0, seen.Len())
	for _, key := range seen.Keys() {
		code, pair, utc, ok := announcement.ParseKey(key)
		if !ok {
			slog.Debug("Skipping unparseable key", "key", key)
			continue
		}

		fact, err := h.normalizer.FromUTC(pair, utc)
		if err != nil {
			slog.Debug("Skipping key with bad timestamp", "key", key, "error", err)
			continue
		}

		facts = append(facts, announcement.NotifiedFact{
			Code: code,
			Link: announcement.BuildLink(h.sourceConfig.SiteURL, h.sourceConfig.Locale, code),
			Fact: fact,
		})
	}

	slices.SortFunc(facts, func(a, b announcement.NotifiedFact) int {
		return cmp.Or(cmp.Compare(b.UTC, a.UTC), cmp.Compare(a.Pair, b.Pair), cmp.Compare(a.Code, b.Code))
	})

	return facts, nil
}

func (h *Handler) GetFeed(c *gin.Context) {
	facts, err := h.notifiedFacts(c)
	if err != nil {
		slog.Error("State error", "operation", "load", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(facts) {
		facts = facts[:limit]
	}

	channel := announcement.Channel{
		Title:       fmt.Sprintf("Launch Comb: %s", h.sourceConfig.Name),
		Link:        fmt.Sprintf("%s/%s/support/announcement/list/%d", h.sourceConfig.SiteURL, h.sourceConfig.Locale, h.sourceConfig.CatalogID),
		Description: "Trading pair launch times extracted from announcements",
		Version:     h.version,
	}
	if h.baseURL != "" {
		channel.SelfLink = h.baseURL + "/feed"
	}

	rss, err := h.generator.Run(channel, facts)
	if err != nil {
		slog.Error("RSS generation error", "source", h.sourceConfig.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(facts)))
	c.Header("X-Feed-Name", h.sourceConfig.Name)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"source":    h.sourceConfig.Name,
		"version":   h.version,
	}

	if _, err := h.store.Load(c.Request.Context()); err != nil {
		health["status"] = "degraded"
		health["state_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	facts, err := h.notifiedFacts(c)
	if err != nil {
		slog.Error("State error", "operation", "load", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "State error"})
		return
	}

	articles := make(map[string]struct{})
	pairs := make(map[string]struct{})
	for _, f := range facts {
		articles[f.Code] = struct{}{}
		pairs[f.Pair] = struct{}{}
	}

	stats := map[string]interface{}{
		"source":   h.sourceConfig.Name,
		"facts":    len(facts),
		"articles": len(articles),
		"pairs":    len(pairs),
	}
	if len(facts) > 0 {
		stats["latest_launch"] = facts[0].UTC
		stats["earliest_launch"] = facts[len(facts)-1].UTC
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListFacts(c *gin.Context) {
	facts, err := h.notifiedFacts(c)
	if err != nil {
		slog.Error("State error", "operation", "load", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "State error"})
		return
	}

	article := c.Query("article")
	pair := strings.ToUpper(c.Query("pair"))

	items := make([]factResponse, 0, len(facts))
	for _, f := range facts {
		if article != "" && f.Code != article {
			continue
		}
		if pair != "" && f.Pair != pair {
			continue
		}
		items = append(items, factResponse{
			Article: f.Code,
			Pair:    f.Pair,
			UTC:     f.UTC,
			Local:   f.Local,
			Link:    f.Link,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"facts": items,
		"total": len(items),
	})
}

// GetIndex describes the service and the routes it exposes.
func (h *Handler) GetIndex(apiEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoints := []string{"/feed", "/health", "/stats"}
		if apiEnabled {
			endpoints = append(endpoints, "/api/facts")
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "Launch Comb",
			"version":     h.version,
			"source":      h.sourceConfig.Name,
			"endpoints":   endpoints,
			"api_enabled": apiEnabled,
		})
	}
}
