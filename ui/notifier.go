package ui

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/resource"
)

// Notifier reports errors to the user
type Notifier interface {
	Show(err error)
}

// ErrorNotifier writes errors to the log. HTTP failures are tagged with
// their status.
type ErrorNotifier struct {
	logger zerolog.Logger
}

// NewErrorNotifier creates a notifier logging through logger
func NewErrorNotifier(logger zerolog.Logger) *ErrorNotifier {
	return &ErrorNotifier{logger: logger}
}

// Show logs err
func (n *ErrorNotifier) Show(err error) {
	if err == nil {
		return
	}

	var apiErr *resource.APIError
	if errors.As(err, &apiErr) {
		n.logger.Error().
			Int("status", apiErr.Status).
			Str("status_text", apiErr.StatusText).
			Str("url", apiErr.URL).
			Msgf("[HTTP %d] %s", apiErr.Status, err.Error())
		return
	}

	n.logger.Error().Err(err).Msg("[Error]")
}
