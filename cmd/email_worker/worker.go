package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/pkg/mailer"
)

type outcome int

const (
	outcomeAck outcome = iota
	// outcomeDrop discards messages that can never succeed.
	outcomeDrop
	// outcomeRetry requeues after a delivery failure.
	outcomeRetry
)

type worker struct {
	Sender  mailer.Sender
	Logger  *logrus.Logger
	Timeout time.Duration
	// MaxRetries bounds how often a failed send goes back to the queue.
	MaxRetries int
}

// handle decodes, renders and sends one job. retries is how many times the
// message has already been requeued.
func (w *worker) handle(ctx context.Context, body []byte, retries int) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email message")
		return outcomeDrop
	}
	subject, text, html, err := job.Content()
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("email render failed")
		return outcomeDrop
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		entry := w.Logger.WithError(err).WithFields(logrus.Fields{"template": job.Template, "retries": retries})
		if retries >= w.MaxRetries {
			entry.Error("email send failed; giving up")
			return outcomeDrop
		}
		entry.Warn("email send failed; will retry")
		return outcomeRetry
	}
	w.Logger.WithField("template", job.Template).Info("email sent")
	return outcomeAck
}
