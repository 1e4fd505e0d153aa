package services

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"newswire/cache"
	"newswire/config"
	"newswire/providers"
	"newswire/storage"
)

// IngestService orchestriert einen kompletten Scrape-Lauf über alle
// konfigurierten Provider und entscheidet danach über die Cache-Invalidierung.
type IngestService struct {
	Config    *config.Config
	Logger    *zap.Logger
	Providers []providers.Provider
	Cache     cache.Cache
	S3Client  *s3.Client // optional, nil ohne konfiguriertes Report-Archiv
}

// NewIngestService erstellt eine neue Instanz des IngestService.
func NewIngestService(cfg *config.Config, logger *zap.Logger, provs []providers.Provider, c cache.Cache, s3Client *s3.Client) *IngestService {
	return &IngestService{
		Config:    cfg,
		Logger:    logger,
		Providers: provs,
		Cache:     c,
		S3Client:  s3Client,
	}
}

// ProviderResult hält das Ergebnis eines einzelnen Providers im Run-Report.
type ProviderResult struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
}

// RunReport fasst einen Scrape-Lauf zusammen.
type RunReport struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Success    bool             `json:"success"`
	Total      int              `json:"total_articles"`
	Providers  []ProviderResult `json:"providers"`
}

// Run führt genau einen Scrape-Lauf aus: alle Provider sequenziell in
// Konfigurationsreihenfolge, Erfolgsflag als UND über alle Provider.
// Ein Provider-Fehler kippt das Flag, bricht den Lauf aber nicht ab.
// Die Caches werden nur geleert, wenn jeder Provider erfolgreich war:
// lieber vollständige alte Daten servieren als frische Lücken.
func (s *IngestService) Run(ctx context.Context) (*RunReport, error) {
	s.Logger.Info("Starting news scraping process...")

	report := &RunReport{StartedAt: time.Now().UTC(), Success: true}

	for _, provider := range s.Providers {
		name := provider.Name()
		s.Logger.Info("Scraping from provider...", zap.String("provider", name))

		articles, err := provider.FetchArticles(ctx, nil)
		if err != nil {
			s.Logger.Error("Error scraping from provider", zap.String("provider", name), zap.Error(err))
			report.Success = false
			report.Providers = append(report.Providers, ProviderResult{Provider: name, Error: err.Error()})
		} else {
			s.Logger.Info("Successfully scraped articles from provider",
				zap.String("provider", name), zap.Int("count", len(articles)))
			report.Total += len(articles)
			report.Providers = append(report.Providers, ProviderResult{Provider: name, Count: len(articles)})
		}

		// Ein abgelaufener Kontext beendet den Lauf als Ganzes, der Retry
		// des Jobs startet dann von vorn.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	report.FinishedAt = time.Now().UTC()

	if report.Success {
		s.Logger.Info("Scraping completed successfully. Clearing relevant caches...")
		if err := s.Cache.ForgetPattern(ctx, cache.SearchPattern); err != nil {
			s.Logger.Error("Failed to clear article search caches", zap.Error(err))
		}
		if err := s.Cache.Forget(ctx, cache.KeyAllSources, cache.KeyAllCategories, cache.KeyAllAuthors); err != nil {
			s.Logger.Error("Failed to clear metadata caches", zap.Error(err))
		}
		s.Logger.Info("Caches cleared.")
	} else {
		s.Logger.Warn("Scraping completed with errors. Caches were NOT cleared to prevent serving incomplete data.")
	}

	s.archiveReport(ctx, report)

	s.Logger.Info("News scraping process completed.", zap.Int("total_articles_scraped", report.Total))
	return report, nil
}

// RunJob führt Run mit der Job-Semantik eines Hintergrund-Jobs aus:
// begrenzte Versuche mit Timeout pro Versuch. Jeder Versuch ist dank
// Upsert-by-URL idempotent und startet von vorn.
func (s *IngestService) RunJob(ctx context.Context) (*RunReport, error) {
	timeout := time.Duration(s.Config.ScrapeTimeoutSeconds) * time.Second

	var lastErr error
	for attempt := 1; attempt <= s.Config.ScrapeMaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		report, err := s.Run(attemptCtx)
		cancel()
		if err == nil {
			return report, nil
		}
		lastErr = err
		s.Logger.Error("Scrape job attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}

	s.Logger.Error("ScrapeNewsJob failed permanently", zap.Int("attempts", s.Config.ScrapeMaxAttempts), zap.Error(lastErr))
	return nil, lastErr
}

// archiveReport legt den Run-Report im S3-Archiv ab, falls konfiguriert.
func (s *IngestService) archiveReport(ctx context.Context, report *RunReport) {
	if s.S3Client == nil || s.Config.ReportS3Bucket == "" {
		return
	}
	link, err := storage.UploadRunReport(ctx, s.S3Client, s.Config, report)
	if err != nil {
		s.Logger.Warn("Failed to archive run report", zap.Error(err))
		return
	}
	s.Logger.Info("Run report archived", zap.String("link", link))
}
