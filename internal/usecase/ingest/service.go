// Package ingest validates incidents, embeds them in batches on a worker pool
// and stores them in the incident index.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	increpo "github.com/ashokkumar81090/Hackathon/internal/repository/incident"
)

// Defaults.
const (
	DefaultBatchSize = 10
	DefaultWorkers   = 4
)

// Options tunes one ingestion run.
type Options struct {
	ClearExisting bool
	BatchSize     int
}

// Skipped is an input item rejected by validation.
type Skipped struct {
	Index      int    `json:"index"`
	IncidentID string `json:"incidentId,omitempty"`
	Reason     string `json:"reason"`
}

// Report summarizes an ingestion run.
type Report struct {
	Received      int           `json:"received"`
	Valid         int           `json:"valid"`
	Skipped       []Skipped     `json:"skipped"`
	Ingested      int           `json:"ingested"`
	Failed        int           `json:"failed"`
	Batches       int           `json:"batches"`
	FailedBatches int           `json:"failedBatches"`
	Cleared       int           `json:"cleared"`
	IndexCreated  bool          `json:"indexCreated"`
	TotalIndexed  int           `json:"totalIndexed"`
	Duration      time.Duration `json:"durationNs"`
}

// Service runs ingestion batches on a bounded ants pool.
type Service struct {
	repo     Repository
	embedder Embedder
	pool     *ants.Pool
	logger   *zap.Logger
}

// New creates an ingestion service with a pool of workers goroutines.
func New(repo Repository, embedder Embedder, workers int, logger *zap.Logger) (*Service, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create ingest pool: %w", err)
	}
	return &Service{repo: repo, embedder: embedder, pool: pool, logger: logger}, nil
}

// Release stops the worker pool.
func (s *Service) Release() { s.pool.Release() }

// Ingest stores the valid incidents. Invalid items are skipped and a failing
// batch is counted, not fatal. Index and clear failures abort the run.
func (s *Service) Ingest(ctx context.Context, incidents []incident.Incident, opts Options) (Report, error) {
	start := time.Now()
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	rep := Report{Received: len(incidents), Skipped: []Skipped{}}

	created, err := s.repo.EnsureIndex(ctx)
	if err != nil {
		return rep, fmt.Errorf("ensure index: %w", err)
	}
	rep.IndexCreated = created

	if opts.ClearExisting {
		n, err := s.repo.Clear(ctx)
		if err != nil {
			return rep, fmt.Errorf("clear incidents: %w", err)
		}
		rep.Cleared = n
		s.logger.Info("Cleared existing incidents", zap.Int("count", n))
	}

	valid := make([]incident.Incident, 0, len(incidents))
	for i, inc := range incidents {
		if err := inc.Validate(); err != nil {
			rep.Skipped = append(rep.Skipped, Skipped{Index: i, IncidentID: inc.IncidentID, Reason: err.Error()})
			s.logger.Warn("Skipping invalid incident", zap.Int("index", i), zap.Error(err))
			continue
		}
		valid = append(valid, inc)
	}
	rep.Valid = len(valid)

	if err := s.runBatches(ctx, valid, opts.BatchSize, &rep); err != nil {
		return rep, err
	}

	if total, err := s.repo.Count(ctx); err != nil {
		s.logger.Warn("Failed to count indexed incidents", zap.Error(err))
	} else {
		rep.TotalIndexed = total
	}

	rep.Duration = time.Since(start)
	s.logger.Info("Ingestion finished",
		zap.Int("received", rep.Received),
		zap.Int("valid", rep.Valid),
		zap.Int("ingested", rep.Ingested),
		zap.Int("failed", rep.Failed),
		zap.Int("batches", rep.Batches),
		zap.Duration("duration", rep.Duration),
	)
	return rep, nil
}

func (s *Service) runBatches(ctx context.Context, valid []incident.Incident, size int, rep *Report) error {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(n int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			rep.Failed += n
			rep.FailedBatches++
			return
		}
		rep.Ingested += n
	}

	for offset := 0; offset < len(valid); offset += size {
		batch := valid[offset:min(offset+size, len(valid))]
		num := offset/size + 1
		rep.Batches++

		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			err := s.store(ctx, batch)
			if err != nil {
				s.logger.Error("Ingest batch failed",
					zap.Int("batch", num), zap.Int("size", len(batch)), zap.Error(err))
			} else {
				s.logger.Debug("Ingest batch stored", zap.Int("batch", num), zap.Int("size", len(batch)))
			}
			record(len(batch), err)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit batch %d: %w", num, submitErr)
		}
	}
	wg.Wait()
	return nil
}

func (s *Service) store(ctx context.Context, batch []incident.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].SearchableText()
	}

	res, err := domain.BatchEmbed(ctx, s.embedder, texts)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(res.Embeddings) != len(batch) {
		return errors.New("embed: vector count does not match batch size")
	}

	records := make([]increpo.Record, len(batch))
	for i := range batch {
		records[i] = increpo.Record{Incident: batch[i], Vector: res.Embeddings[i]}
	}
	return s.repo.SaveBatch(ctx, records)
}
