package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/orderly/orders-api/internal/infrastructure/config"
	"github.com/orderly/orders-api/internal/infrastructure/db/postgres"
	redisdb "github.com/orderly/orders-api/internal/infrastructure/db/redis"
	"github.com/orderly/orders-api/pkg/logger"
)

func main() {
	var (
		up       bool
		rollback bool
		status   bool
		timeout  time.Duration
	)
	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	flags.BoolVar(&up, "up", false, "apply every pending migration (default action)")
	flags.BoolVar(&rollback, "rollback", false, "revert the most recent batch")
	flags.BoolVar(&status, "status", false, "list applied and pending migrations")
	flags.DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline, including waiting for the lock")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [--up | --rollback | --status]\n\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if countTrue(up, rollback, status) > 1 {
		flags.Usage()
		os.Exit(2)
	}

	if err := run(rollback, status, timeout); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

// run applies pending migrations unless rollback or status is requested.
func run(rollback, status bool, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "orders-migrate", File: cfg.LogFile})
	defer func() { _ = logger.Close() }()

	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxOpenConns: 1, MaxIdleConns: 1}, log)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	var opts []postgres.MigratorOption
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		opts = append(opts, postgres.WithLocker(redisdb.NewLocker(rdb, "orders-api:migrations", 0)))
	}
	m := postgres.NewMigrator(db, log, opts...)

	switch {
	case status:
		return printStatus(ctx, m)
	case rollback:
		reverted, err := m.Rollback(ctx)
		if errors.Is(err, postgres.ErrNoMigrations) {
			fmt.Println("nothing to roll back")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("rolled back %d migration(s)\n", len(reverted))
		return nil
	default:
		applied, err := m.Up(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("applied %d migration(s)\n", len(applied))
		return nil
	}
}

func printStatus(ctx context.Context, m *postgres.Migrator) error {
	steps, err := m.Status(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tBATCH\tAPPLIED AT")
	for _, s := range steps {
		state, batch, at := "pending", "-", "-"
		if s.Applied {
			state, batch, at = "applied", fmt.Sprint(s.Batch), s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Version, s.Name, state, batch, at)
	}
	return w.Flush()
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
