// Command diagnose prints a quick health report for the ticket database:
// per-status counts, gaps in the ticket number sequence, and pagination
// envelope dry-runs for each allowed page size.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/fleetdesk/fleetdesk/internal/config"
	"github.com/fleetdesk/fleetdesk/internal/observability"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()

	fmt.Println("tickets by status:")
	rows, err := pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status ORDER BY status`)
	if err != nil {
		logger.Fatal("status counts query failed", zap.Error(err))
	}
	var total int64
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			logger.Fatal("status counts scan failed", zap.Error(err))
		}
		total += count
		fmt.Printf("  %-18s %d\n", status, count)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		logger.Fatal("status counts iteration failed", zap.Error(err))
	}
	fmt.Printf("  %-18s %d\n", "total", total)

	fmt.Println("\nticket number gaps:")
	gapRows, err := pool.Query(ctx, `
        SELECT ticket_number + 1 AS gap_start, next_number - 1 AS gap_end
        FROM (
            SELECT ticket_number, LEAD(ticket_number) OVER (ORDER BY ticket_number) AS next_number
            FROM tickets
        ) seq
        WHERE next_number - ticket_number > 1`)
	if err != nil {
		logger.Fatal("gap query failed", zap.Error(err))
	}
	gaps := 0
	for gapRows.Next() {
		var gapStart, gapEnd int64
		if err := gapRows.Scan(&gapStart, &gapEnd); err != nil {
			gapRows.Close()
			logger.Fatal("gap scan failed", zap.Error(err))
		}
		gaps++
		if gapStart == gapEnd {
			fmt.Printf("  missing #%d\n", gapStart)
		} else {
			fmt.Printf("  missing #%d..#%d\n", gapStart, gapEnd)
		}
	}
	gapRows.Close()
	if err := gapRows.Err(); err != nil {
		logger.Fatal("gap iteration failed", zap.Error(err))
	}
	if gaps == 0 {
		fmt.Println("  none")
	}

	fmt.Println("\npagination dry-run (page 1):")
	for _, limit := range []int{10, 25, 50, 100} {
		params := pagination.ParseParams("1", fmt.Sprint(limit))
		envelope := pagination.BuildEnvelope(params, total)
		fmt.Printf("  limit=%-4d totalPages=%-5d hasNext=%v\n", envelope.Limit, envelope.TotalPages, envelope.HasNextPage)
	}
}
