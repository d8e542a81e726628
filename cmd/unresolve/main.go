// Command unresolve reverts a resolved or closed ticket back to open in
// place. This is the sanctioned admin path that bypasses the public
// reopen-as-fork flow; it clears the resolution fields and leaves a system
// comment on the thread.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fleetdesk/fleetdesk/internal/config"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/observability"
	"github.com/fleetdesk/fleetdesk/internal/persistence"
	"github.com/fleetdesk/fleetdesk/internal/repository"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: unresolve <ticket_number>")
		os.Exit(2)
	}
	ticketNumber, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid ticket number %q\n", os.Args[1])
		os.Exit(2)
	}

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
	tickets := repository.NewTicketRepository(pool)
	comments := repository.NewCommentRepository(pool)

	ticket, err := tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		logger.Fatal("ticket lookup failed", zap.Int64("ticket_number", ticketNumber), zap.Error(err))
	}

	if ticket.Status != domain.TicketStatusResolved && ticket.Status != domain.TicketStatusClosed {
		logger.Fatal("ticket is not resolved or closed",
			zap.Int64("ticket_number", ticketNumber),
			zap.String("status", string(ticket.Status)))
	}

	previous := ticket.Status
	ticket.Status = domain.TicketStatusOpen
	ticket.Resolution = nil
	ticket.ResolvedAt = nil
	ticket.ResolvedBy = nil

	if err := tickets.Update(ctx, ticket); err != nil {
		logger.Fatal("ticket update failed", zap.Error(err))
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorName: "System",
		AuthorType: domain.AuthorTypeSystem,
		Body:       fmt.Sprintf("Ticket reverted from %s to open by an administrator", previous),
	}
	if err := comments.Create(ctx, comment); err != nil {
		logger.Fatal("system comment failed", zap.Error(err))
	}

	logger.Info("ticket reverted to open",
		zap.Int64("ticket_number", ticketNumber),
		zap.String("previous_status", string(previous)))
}
