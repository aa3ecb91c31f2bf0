package bridge

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoSyncer = (*bridge)(nil)

// AutoSyncer provides controls for the recurring pass schedule.
type AutoSyncer interface {
	// AutoSyncOn begins scheduled full passes at the configured interval
	AutoSyncOn() error

	// AutoSyncOff stops scheduled passes
	AutoSyncOff() error
}

// AutoSyncOn begins scheduled full passes at the configured interval.
func (b *bridge) AutoSyncOn() error {
	if b.options.autoSyncInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoSyncInterval",
			Value:   b.options.autoSyncInterval,
			Message: "sync interval must be positive",
		}
	}

	// Stop any existing schedule to prevent resource leaks
	if err := b.AutoSyncOff(); err != nil {
		return err
	}

	// Recreate stopCh since it was closed in AutoSyncOff
	b.stopCh = make(chan struct{})

	b.syncTicker = time.NewTicker(b.options.autoSyncInterval)

	// Create a cancellable context for the schedule goroutine
	ctx, cancel := context.WithCancel(context.Background())
	b.syncCancel = cancel

	go func(parentCtx context.Context) {
		for {
			select {
			case <-b.syncTicker.C:
				// Bound each scheduled pass with its own timeout
				passCtx, passCancel := context.WithTimeout(parentCtx, constants.PassContextTimeout)
				_, err := b.Sync(passCtx)
				passCancel()

				if err != nil {
					// Exit only when the schedule itself was torn down. A
					// pass that ran over its own timeout reports
					// DeadlineExceeded too, so the parent context is the
					// authority here.
					if parentCtx.Err() != nil {
						return
					}
					// Disabled sync and a still-running pass are routine
					if stderrors.Is(err, errors.ErrSyncDisabled) || stderrors.Is(err, errors.ErrPassInProgress) {
						continue
					}
					logging.Error().Err(err).Msg("Scheduled pass failed")
				}
			case <-parentCtx.Done():
				return
			case <-b.stopCh:
				return
			}
		}
	}(ctx)

	return nil
}

// AutoSyncOff stops scheduled passes.
func (b *bridge) AutoSyncOff() error {
	if b.syncTicker != nil {
		b.syncTicker.Stop()
		b.syncTicker = nil
	}
	if b.syncCancel != nil {
		b.syncCancel()
		b.syncCancel = nil
	}
	select {
	case <-b.stopCh:
		// Already closed
	default:
		close(b.stopCh)
	}
	return nil
}
