package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/skuhl/cardread/internal/audio"
	"github.com/skuhl/cardread/internal/config"
	"github.com/skuhl/cardread/internal/db"
	"github.com/skuhl/cardread/internal/kiosk/service"
	"github.com/skuhl/cardread/internal/kiosk/store"
	"github.com/skuhl/cardread/internal/kiosk/store/csvfile"
	sqlitestore "github.com/skuhl/cardread/internal/kiosk/store/sqlite"
	"github.com/skuhl/cardread/internal/kiosk/token"
	"github.com/skuhl/cardread/internal/logging"
	"github.com/skuhl/cardread/internal/reader"
	"github.com/skuhl/cardread/internal/remote"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, err := token.ParseFormat(cfg.CardFormat)
	if err != nil {
		return err
	}
	policy, err := service.ParseIdentityPolicy(cfg.IdentityPolicy)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.AttendDir, 0o755); err != nil {
		return fmt.Errorf("mkdir attend dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}

	// Identity store
	identities := csvfile.NewIdentityStore(cfg.DBPath)
	n, err := identities.Load(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d cards+names in %s\n", n, cfg.DBPath)

	// Attendance log for today
	attendance, existed, err := csvfile.OpenAttendanceLog(cfg.AttendDir, time.Now())
	if err != nil {
		return err
	}
	defer attendance.Close()
	if existed {
		fmt.Printf("Appending people to the end of %s (which already exists)\n", attendance.Path())
	} else {
		fmt.Printf("Storing people in %s\n", attendance.Path())
	}

	sounds := audio.NewPlayer(cfg.SoundDir, logger)

	// Optional event archive
	var archive store.EventArchive
	if cfg.ArchiveDBPath != "" {
		sqlDB, err := db.Open(ctx, cfg.ArchiveDBPath)
		if err != nil {
			logger.Warn("event archive disabled for this session", "error", err)
		} else {
			defer sqlDB.Close()
			writer := db.NewWorker(sqlDB)
			defer writer.Close()
			archive = sqlitestore.NewEventArchive(sqlDB, writer)

			pruner := service.NewArchivePruner(archive, service.PrunerConfig{
				RetentionDays: cfg.ArchiveRetentionDays,
				IntervalHours: cfg.PruneIntervalHours,
			}, logger)
			pruner.Start(ctx)
			defer pruner.Stop()
		}
	}

	// Optional remote reporting. Any init failure warns once and the
	// session runs local-only.
	var reporter service.AttendanceReporter
	rcfg := remote.Config{BaseURL: cfg.RemoteURL, Token: cfg.RemoteToken}
	if rcfg.Configured() {
		client, err := remote.NewClient(rcfg)
		if err != nil {
			logger.Warn("remote reporting disabled for this session", "error", err)
		} else if r, err := remote.NewReporter(ctx, client, cfg.RemoteCourse, cfg.RemoteAssignment, logger); err != nil {
			logger.Warn("remote reporting disabled for this session", "error", err)
		} else {
			reporter = r
		}
	}

	out := os.Stdout
	loop := service.NewSessionLoop(service.Dependencies{
		Logger:     logger,
		Out:        out,
		Cards:      reader.NewCardReader(reader.NewSecretTerminal(out), format),
		Identities: identities,
		Enroller:   service.NewEnrollmentFlow(reader.NewTerminal(out), policy, format, out, sounds),
		Attendance: attendance,
		Reporter:   reporter,
		Archive:    archive,
		Sounds:     sounds,
		SessionID:  uuid.NewString(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		// The loop is almost certainly blocked on a terminal read, which
		// cannot be interrupted; exit without waiting for it.
		logger.Info("shutting down")
		return nil
	}
}
