package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tinyami/internal/core/domain"
	"tinyami/internal/core/port"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const DefaultPollInterval = 2 * time.Second

// StatusPoller waits for an image to reach a terminal status.
type StatusPoller struct {
	inspector port.ImageInspector
	interval  time.Duration
}

func NewStatusPoller(inspector port.ImageInspector, interval time.Duration) *StatusPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusPoller{inspector: inspector, interval: interval}
}

var errNotTerminal = errors.New("image not processed yet")

// Wait polls the image until it is completed or failed and returns the last snapshot.
// A failed image is returned together with domain.ErrProcessingFailed. Errors from the
// service end the wait immediately.
func (p *StatusPoller) Wait(ctx context.Context, imageID int64) (*domain.ImageStatus, error) {
	l := log.With().Int64("imageId", imageID).Logger()

	var last *domain.ImageStatus
	operation := func() error {
		status, err := p.inspector.GetImageInfo(ctx, imageID)
		if err != nil {
			return backoff.Permanent(err)
		}

		last = status
		l.Debug().Str("status", string(status.Status)).Msg("polled image status")

		if !status.Status.IsTerminal() {
			return errNotTerminal
		}
		return nil
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(p.interval), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return last, err
	}

	if last.Status == domain.StatusFailed {
		msg := "no reason given"
		if last.Error != nil {
			msg = *last.Error
		}
		return last, fmt.Errorf("%w: %s", domain.ErrProcessingFailed, msg)
	}

	return last, nil
}
