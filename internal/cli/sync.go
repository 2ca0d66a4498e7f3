package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"confprog/internal/config"
	"confprog/internal/fetch"
	"confprog/internal/logger"
	"confprog/internal/program"
	"confprog/internal/sessionize"
	"confprog/internal/store"
)

var flagRefresh bool

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch the program and update local storage",
		Long: `Fetches the configured program pages, parses and normalizes them into
speakers, rooms, and sessions, and replaces the locally stored program.
Data-quality warnings are logged but never abort the run.`,
		RunE: runSync,
	}
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Bypass the HTML cache and fetch fresh pages")
	return cmd
}

// source is one Sessionize event page set contributing to the program.
type source struct {
	id   string
	kind string
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := fetch.New(cfg.Timeout(), cfg.Fetch.UserAgent)

	var cache *fetch.Cache
	if cfg.Fetch.CacheDir != "" {
		cache, err = fetch.NewCache(cfg.Fetch.CacheDir)
		if err != nil {
			return err
		}
	}

	norm := program.NewNormalizer(program.Options{
		Location:   loc,
		DateFormat: cfg.Schedule.DateFormat,
		Year:       cfg.Year(),
	})

	sources := []source{{id: cfg.Source.ProgramID, kind: program.KindSession}}
	if cfg.Source.WorkshopID != "" && cfg.Source.WorkshopID != cfg.Source.ProgramID {
		sources = append(sources, source{id: cfg.Source.WorkshopID, kind: program.KindWorkshop})
	}

	started := time.Now()
	for _, src := range sources {
		if err := syncSource(ctx, cfg, client, cache, norm, src); err != nil {
			return err
		}
	}

	// Normalization runs once over all pages so identity registries and
	// session de-duplication stay global.
	p := norm.Program()
	for _, w := range p.Warnings {
		logger.Warn("Normalization warning", logger.Fields{
			"code":      string(w.Code),
			"source_id": w.SourceID,
			"title":     w.Title,
			"detail":    w.Detail,
		})
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer st.Close()

	if err := st.Save(ctx, p); err != nil {
		return fmt.Errorf("saving program: %w", err)
	}

	logger.Debug("Sync finished", logger.Fields{"elapsed": time.Since(started).String()})
	fmt.Printf("Synced %d sessions, %d speakers, %d rooms (%d warnings)\n",
		len(p.Sessions), len(p.Speakers), len(p.Rooms), len(p.Warnings))
	return nil
}

func syncSource(ctx context.Context, cfg *config.Config, client *fetch.Client, cache *fetch.Cache, norm *program.Normalizer, src source) error {
	html, err := fetchPage(ctx, cfg, client, cache, src.id+".program",
		sessionize.ProgramURL(cfg.Source.BaseURL, src.id))
	if err != nil {
		return err
	}

	records, err := sessionize.ParseProgram(bytes.NewReader(html))
	if err != nil {
		return err
	}
	norm.AddSessions(src.kind, records)
	logger.Info("Parsed program page", logger.Fields{
		"source_id": src.id,
		"records":   len(records),
	})

	// Speaker profiles only enrich entities the sessions already reference;
	// a broken speakers page degrades the output instead of failing the run.
	html, err = fetchPage(ctx, cfg, client, cache, src.id+".speakers",
		sessionize.SpeakersURL(cfg.Source.BaseURL, src.id))
	if err != nil {
		logger.Warn("Skipping speaker enrichment", logger.Fields{
			"source_id": src.id,
			"error":     err.Error(),
		})
		return nil
	}
	speakerRecords, err := sessionize.ParseSpeakers(bytes.NewReader(html))
	if err != nil {
		logger.Warn("Skipping speaker enrichment", logger.Fields{
			"source_id": src.id,
			"error":     err.Error(),
		})
		return nil
	}
	norm.AddSpeakerDetails(speakerRecords)
	logger.Info("Parsed speakers page", logger.Fields{
		"source_id": src.id,
		"records":   len(speakerRecords),
	})
	return nil
}

func fetchPage(ctx context.Context, cfg *config.Config, client *fetch.Client, cache *fetch.Cache, name, url string) ([]byte, error) {
	if cache != nil && !flagRefresh {
		if data, ok := cache.Get(name); ok {
			logger.Debug("Using cached page", logger.Fields{"page": name})
			return data, nil
		}
	}

	data, err := fetchWithRetry(ctx, client, url, cfg.Fetch.RetryAttempts)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Put(name, data); err != nil {
			logger.Warn("Failed to cache page", logger.Fields{
				"page":  name,
				"error": err.Error(),
			})
		}
	}
	return data, nil
}

// fetchWithRetry wraps a fetch in exponential backoff. The fetcher itself
// never retries; that policy belongs to this caller. Client errors (4xx)
// will not change on retry and fail immediately.
func fetchWithRetry(ctx context.Context, client *fetch.Client, url string, attempts int) ([]byte, error) {
	var body []byte
	operation := func() error {
		var err error
		body, err = client.Fetch(ctx, url)

		var fe *fetch.Error
		if errors.As(err, &fe) && fe.StatusCode >= 400 && fe.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(attempts)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}
