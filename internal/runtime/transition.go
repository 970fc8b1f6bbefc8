package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/smolbox/pkg/domain"
)

// Commit appends rec to the history log. A nil rec means the current Record.
func (e *Engine) Commit(ctx context.Context, rec domain.Record) error {
	if rec == nil {
		var err error
		rec, err = e.load(ctx)
		if err != nil {
			return err
		}
	}
	if err := e.history.Append(ctx, rec); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// Advance moves the pipeline to its next stage.
// The current Record is archived unconditionally, then every output field is
// rotated into its paired input field and cleared.
func (e *Engine) Advance(ctx context.Context) (domain.Record, error) {
	rec, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	previous := rec.Clone()

	if err := e.Commit(ctx, previous); err != nil {
		return nil, err
	}

	rec.Rotate()
	if err := e.save(ctx, rec); err != nil {
		return nil, err
	}

	diff := domain.Diff(previous, rec)
	e.logger.Info("Stage advanced", "diff", diff)
	if e.hooks.OnAdvance != nil {
		e.hooks.OnAdvance(ctx, &domain.AdvanceEvent{
			EventBase: *e.event(domain.EventAdvance),
			Previous:  previous,
			Current:   rec.Clone(),
			Diff:      diff,
		})
	}
	return rec, nil
}
