package services

import (
	"log"
	"math/rand"
	"time"

	"tlbc-notify-backend/models"

	"github.com/google/uuid"
)

// RenderFunc maps a recipient to the message to deliver. Rendering
// never fails; missing fields degrade to empty substitutions.
type RenderFunc func(r models.Recipient) models.RenderedMessage

// DispatchResult reports aggregate counts for one dispatch run. Per
// recipient detail lives only in the run log.
type DispatchResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

// Dispatcher pushes rendered messages through a delivery channel with
// bounded retries and exponential backoff, recording exactly one
// DeliveryAttempt per recipient per run.
type Dispatcher struct {
	channel     DeliveryChannel
	runLog      *RunLog
	renderer    *Renderer
	maxAttempts int
	baseBackoff time.Duration

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func NewDispatcher(channel DeliveryChannel, runLog *RunLog, renderer *Renderer, maxAttempts int, baseBackoff time.Duration) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Dispatcher{
		channel:     channel,
		runLog:      runLog,
		renderer:    renderer,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
		sleep:       time.Sleep,
	}
}

// DispatchAll processes recipients strictly in order, one at a time.
// A recipient whose retries are exhausted is recorded as failed and the
// batch moves on; nothing aborts the whole run.
func (d *Dispatcher) DispatchAll(recipients []models.Recipient, render RenderFunc) DispatchResult {
	result := DispatchResult{Total: len(recipients)}

	for _, r := range recipients {
		to := d.channel.Address(r)
		msg := render(r)
		title := d.renderer.ResolveTitle(r)

		messageID, attempts, err := d.sendWithRetry(msg, to)

		attempt := models.DeliveryAttempt{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Recipient: to,
			Name:      r.FullName(),
			Title:     title,
			Gender:    r.Gender,
			Attempts:  attempts,
		}

		if err != nil {
			attempt.Status = models.AttemptStatusFailed
			attempt.Error = err.Error()
			result.Failed++
			log.Printf("Failed to send %s to %s after %d attempts: %v", d.channel.Name(), to, attempts, err)
		} else {
			attempt.Status = models.AttemptStatusSuccess
			attempt.MessageID = messageID
			result.Success++
			log.Printf("Sent %s to %s (id %s, attempt %d)", d.channel.Name(), to, messageID, attempts)
		}

		if logErr := d.runLog.Append(attempt); logErr != nil {
			// A bad log file must never block delivery.
			log.Printf("WARN: failed to record attempt for %s: %v", to, logErr)
		}
	}

	return result
}

// sendWithRetry performs up to maxAttempts sends, sleeping
// baseBackoff * 2^attempt plus up to a second of jitter between tries.
func (d *Dispatcher) sendWithRetry(msg models.RenderedMessage, to string) (string, int, error) {
	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		messageID, err := d.channel.Send(msg, to)
		if err == nil {
			return messageID, attempt, nil
		}
		lastErr = err

		if attempt < d.maxAttempts {
			wait := d.baseBackoff*time.Duration(1<<attempt) + time.Duration(rand.Intn(1000))*time.Millisecond
			log.Printf("Attempt %d to %s failed (%v), retrying in %v", attempt, to, err, wait)
			d.sleep(wait)
		}
	}
	return "", d.maxAttempts, lastErr
}
