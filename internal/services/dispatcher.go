package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/internal/infrastructure/trigger"
)

// DeliverySink receives a fired trigger. Delivery is at-most-once: a sink
// failure is logged and the trigger is dropped, never retried.
type DeliverySink interface {
	Name() string
	Deliver(ctx context.Context, t trigger.Trigger) error
}

// DispatcherConfig controls how frequently pending triggers are drained.
type DispatcherConfig struct {
	Interval  time.Duration
	BatchSize int
}

// TriggerDispatcher drains due triggers from the store on a cron interval
// and hands them to the registered delivery sinks.
type TriggerDispatcher struct {
	store  *trigger.Store
	sinks  []DeliverySink
	logger *zap.Logger
	cron   *cron.Cron
	cfg    DispatcherConfig
}

func NewTriggerDispatcher(store *trigger.Store, logger *zap.Logger, cfg DispatcherConfig) *TriggerDispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Interval < time.Second {
		// The cron spec counts whole seconds; anything finer would
		// truncate to "@every 0s", which the parser rejects.
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	td := &TriggerDispatcher{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := td.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := td.Drain(ctx); err != nil {
			td.logger.Error("trigger drain failed", zap.Error(err))
		}
	}); err != nil {
		td.logger.Error("failed to register drain schedule",
			zap.String("schedule", schedule),
			zap.Error(err))
	}

	return td
}

// AddSink registers a delivery sink. Not safe to call after Start.
func (td *TriggerDispatcher) AddSink(sink DeliverySink) {
	if sink == nil {
		return
	}
	td.sinks = append(td.sinks, sink)
}

// Start launches the cron scheduler.
func (td *TriggerDispatcher) Start() {
	if td == nil || td.cron == nil {
		return
	}
	td.cron.Start()
	td.logger.Info("trigger dispatcher started")
}

// Stop gracefully stops the scheduler.
func (td *TriggerDispatcher) Stop(ctx context.Context) {
	if td == nil || td.cron == nil {
		return
	}
	stopCtx := td.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	td.logger.Info("trigger dispatcher stopped")
}

// Drain delivers every due trigger and removes it from the store. Removal
// happens regardless of delivery outcome; there is no backfill for triggers
// that failed to deliver.
func (td *TriggerDispatcher) Drain(ctx context.Context) error {
	if td == nil || td.store == nil {
		return nil
	}

	due, err := td.store.Due(time.Now(), td.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, t := range due {
		for _, sink := range td.sinks {
			if err := sink.Deliver(ctx, t); err != nil {
				td.logger.Warn("trigger delivery failed",
					zap.String("sink", sink.Name()),
					zap.Int("trigger_id", t.ID),
					zap.Error(err))
			}
		}
		if err := td.store.Delete(t.ID); err != nil {
			td.logger.Warn("failed to remove fired trigger",
				zap.Int("trigger_id", t.ID),
				zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of pending triggers.
func (td *TriggerDispatcher) Size() int {
	if td == nil || td.store == nil {
		return 0
	}
	size, err := td.store.Size()
	if err != nil {
		return 0
	}
	return size
}
