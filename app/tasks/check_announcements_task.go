package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/launch-comb/app/announcement"
)

// Result summarizes one polling pass.
type Result struct {
	Articles int
	Facts    int
	NewKeys  []string
	Message  string
}

func (r Result) Summary() string {
	if len(r.NewKeys) == 0 {
		return "no updates"
	}
	return fmt.Sprintf("sent %d new items", len(r.NewKeys))
}

type CheckAnnouncementsTask struct {
	Task
	SourceConfig *announcement.SourceConfig
	DryRun       bool
	Result       Result

	source    AnnouncementSource
	notifier  Notifier
	store     StateStore
	filterer  *announcement.Filterer
	flattener *announcement.Flattener
	extractor *announcement.Extractor
}

func NewCheckAnnouncementsTask(sourceConfig *announcement.SourceConfig, source AnnouncementSource, notifier Notifier, store StateStore, dryRun bool) *CheckAnnouncementsTask {
	return &CheckAnnouncementsTask{
		Task:         NewTask(TaskTypeCheckAnnouncements, sourceConfig.Name),
		SourceConfig: sourceConfig,
		DryRun:       dryRun,
		source:       source,
		notifier:     notifier,
		store:        store,
		filterer:     announcement.NewFilterer(),
		flattener:    announcement.NewFlattener(),
		extractor:    announcement.NewExtractor(announcement.NewNormalizer(sourceConfig.Location())),
	}
}

// Execute runs one pass: select articles, extract facts, notify once and
// persist the new keys. Nothing is persisted when delivery fails.
func (t *CheckAnnouncementsTask) Execute(ctx context.Context) error {
	sc := t.SourceConfig

	seen, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	t.source.Warmup(ctx)

	articles, err := t.source.FetchCatalog(ctx, sc.CatalogID, sc.PageNo, sc.PageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	selected := t.filterer.Run(articles, sc)
	slog.Debug("Articles selected", "source", t.SourceName, "catalog", len(articles), "selected", len(selected))

	var messages []string
	var newKeys []string
	factCount := 0

	for _, article := range selected {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		facts, err := t.extractFacts(ctx, article)
		if err != nil {
			if errors.Is(err, announcement.ErrMissingBody) {
				slog.Debug("Article has no body, skipping", "article", article.Code)
			} else {
				slog.Warn("Skipping article", "article", article.Code, "error", err)
			}
			continue
		}
		factCount += len(facts)

		fresh, keys := announcement.FilterNew(facts, article.Code, seen)
		slog.Debug("Article processed", "article", article.Code, "facts", len(facts), "new", len(fresh))
		if len(fresh) == 0 {
			continue
		}

		link := announcement.BuildLink(sc.SiteURL, sc.Locale, article.Code)
		messages = append(messages, announcement.FormatMessage(article.Title, link, fresh))
		newKeys = append(newKeys, keys...)
	}

	t.Result = Result{Articles: len(selected), Facts: factCount}

	if len(messages) > 0 {
		content := announcement.JoinMessages(messages)
		if err := t.notifier.Send(ctx, content); err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}

		if !t.DryRun {
			updated := seen.Clone()
			updated.Add(newKeys...)
			if err := t.store.SaveAtomic(ctx, updated); err != nil {
				return fmt.Errorf("failed to save state: %w", err)
			}
		}

		t.Result.NewKeys = newKeys
		t.Result.Message = content
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"articles", t.Result.Articles,
		"facts", t.Result.Facts,
		"new", len(t.Result.NewKeys),
		"dry_run", t.DryRun)

	return nil
}

func (t *CheckAnnouncementsTask) extractFacts(ctx context.Context, article announcement.Article) ([]announcement.Fact, error) {
	body, err := t.source.FetchDetail(ctx, article.Code)
	if err != nil {
		return nil, err
	}

	doc, err := announcement.ParseDocument(body)
	if err != nil {
		return nil, err
	}

	lines := t.flattener.Run(doc)
	return t.extractor.Run(lines, t.SourceConfig.Lookahead)
}
