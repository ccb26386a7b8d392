package nlu

import (
	"context"
	"log/slog"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// Classifier is the two-stage classification pipeline: an optional remote
// strategy in front of the always-available pattern strategy. Any remote
// failure (transport error, timeout, malformed JSON) degrades to the local
// strategy and never surfaces to the caller.
type Classifier struct {
	pattern PatternStrategy
	remote  *RemoteStrategy
	logger  *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRemote enables the remote strategy.
func WithRemote(backend Backend) Option {
	return func(c *Classifier) {
		c.remote = NewRemoteStrategy(backend)
	}
}

// WithLogger sets the classifier logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// NewClassifier builds a classifier. Without options it is purely local.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify detects the intent of text for the given speaker.
//
// preferRemote requests the remote strategy; it is honored only when a
// remote backend was configured. With no remote path in play the result is
// a pure function of (text, speaker).
func (c *Classifier) Classify(ctx context.Context, text string, speaker models.Speaker, preferRemote bool) models.Intent {
	if preferRemote && c.remote != nil {
		intent, err := c.remote.Classify(ctx, text, speaker)
		if err == nil {
			c.logger.Debug("intent classified remotely",
				"intent", intent.Name, "confidence", intent.Confidence)
			return intent
		}
		c.logger.Warn("remote classification failed, falling back to patterns", "error", err)
	}

	intent := c.pattern.Classify(text, speaker)
	c.logger.Debug("intent classified by patterns",
		"intent", intent.Name, "confidence", intent.Confidence)
	return intent
}
