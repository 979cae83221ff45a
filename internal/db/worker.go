package db

import (
	"context"
	"database/sql"
)

// TxFn runs inside a transaction managed by the Worker.
type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

// Worker funnels all archive writes through a single goroutine, one
// transaction at a time. The session loop and the pruner both write to the
// archive; going through the worker means they can never contend for the
// SQLite write lock.
type Worker struct {
	sqlDB *sql.DB
	jobs  chan job
	done  chan struct{}
}

func NewWorker(sqlDB *sql.DB) *Worker {
	w := &Worker{
		sqlDB: sqlDB,
		jobs:  make(chan job, 64),
		done:  make(chan struct{}),
	}
	go w.loop()
	return w
}

// Close drains queued jobs and stops the worker.
func (w *Worker) Close() {
	close(w.jobs)
	<-w.done
}

// Do runs fn in a transaction on the worker goroutine and returns its
// result. If the caller's context expires while the job is queued or
// running, Do returns early; the worker still finishes the transaction and
// the result lands in the buffered channel, discarded.
func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	ch := make(chan error, 1)

	select {
	case w.jobs <- job{ctx: ctx, fn: fn, ch: ch}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	for j := range w.jobs {
		tx, err := w.sqlDB.BeginTx(j.ctx, nil)
		if err != nil {
			j.ch <- err
			continue
		}
		if err := j.fn(j.ctx, tx); err != nil {
			_ = tx.Rollback()
			j.ch <- err
			continue
		}
		j.ch <- tx.Commit()
	}
}
