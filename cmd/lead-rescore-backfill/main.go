// Re-runs the scoring pipeline over every stored lead. Useful after a
// scoring rule change so dashboards and CRM attributes reflect the new
// rules without waiting for the next inbound message per lead.
package main

import (
	"context"
	"sync/atomic"
	"time"

	"autoassist_backend/internal/events"
	"autoassist_backend/internal/leads/repository"
	"autoassist_backend/internal/leads/service"
	"autoassist_backend/platform/config"
	"autoassist_backend/platform/db"
	"autoassist_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead rescore backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// No cache and no task queue: the backfill writes scores only, CRM
	// sync stays with the regular inbound pipeline.
	repo := repository.New(pool)
	svc := service.New(repo, nil, nil, events.NewInMemoryBus(log), log)

	const batchSize = 100

	var processed, rescored, skipped atomic.Int64

	cursorTime := time.Time{}
	cursorID := uuid.Nil

	for {
		batch, err := listLeadIDs(ctx, pool, batchSize, cursorTime, cursorID)
		if err != nil {
			log.Error("failed to list leads", "error", err)
			break
		}
		if len(batch) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(5)

		for _, lead := range batch {
			lead := lead
			g.Go(func() error {
				processed.Add(1)
				if _, err := svc.Rescore(gctx, lead.id); err != nil {
					// Leads without user messages cannot be rescored.
					skipped.Add(1)
					log.Warn("rescore skipped", "leadId", lead.id.String(), "error", err)
					return nil
				}
				rescored.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Error("rescore batch failed", "error", err)
			break
		}

		last := batch[len(batch)-1]
		cursorTime = last.createdAt
		cursorID = last.id
	}

	log.Info("lead rescore backfill complete",
		"processed", processed.Load(),
		"rescored", rescored.Load(),
		"skipped", skipped.Load(),
	)
}

type leadCursor struct {
	id        uuid.UUID
	createdAt time.Time
}

// listLeadIDs pages through all leads with a keyset cursor on
// (created_at, id) so the scan stays stable while scores change underneath.
func listLeadIDs(ctx context.Context, pool *pgxpool.Pool, limit int, afterTime time.Time, afterID uuid.UUID) ([]leadCursor, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, created_at
		FROM leads
		WHERE (created_at, id) > ($1, $2)
		ORDER BY created_at, id
		LIMIT $3
	`, afterTime, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batch []leadCursor
	for rows.Next() {
		var lead leadCursor
		if err := rows.Scan(&lead.id, &lead.createdAt); err != nil {
			return nil, err
		}
		batch = append(batch, lead)
	}
	return batch, rows.Err()
}
