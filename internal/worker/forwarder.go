// Package worker holds the ingestion worker's message handling: decode a
// queued weather reading and forward it to the API's ingest endpoint. The
// ack/nack decision is separated from the AMQP plumbing so it can be tested.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Reading mirrors the collector's queue payload.
type Reading struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	IsDay         int     `json:"is_day"`
	Precipitation float64 `json:"precipitation"`
	Timestamp     string  `json:"timestamp"`
}

// Outcome tells the consumer loop what to do with the delivery.
type Outcome int

const (
	// Ack: processed; remove from the queue.
	Ack Outcome = iota
	// NackDiscard: malformed payload or rejected by the API as invalid; drop
	// without requeue, a retry cannot succeed.
	NackDiscard
	// NackRequeue: transient API failure; return to the queue for retry.
	NackRequeue
)

// Forwarder posts readings to the API ingest endpoint.
type Forwarder struct {
	client    *http.Client
	ingestURL string
}

// NewForwarder returns a Forwarder posting to ingestURL with the given client.
// client may be nil; http.DefaultClient is then used.
func NewForwarder(client *http.Client, ingestURL string) *Forwarder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Forwarder{client: client, ingestURL: ingestURL}
}

// Process decodes one queue message and forwards it. The returned Outcome maps
// directly onto AMQP ack/nack semantics.
func (f *Forwarder) Process(ctx context.Context, body []byte) Outcome {
	var r Reading
	if err := json.Unmarshal(body, &r); err != nil {
		log.Printf("worker: malformed message, discarding: %v", err)
		return NackDiscard
	}
	out := f.forward(ctx, &r)
	if out == Ack {
		log.Printf("worker: forwarded reading temp=%.1fC humidity=%.1f%%", r.Temperature, r.Humidity)
	}
	return out
}

func (f *Forwarder) forward(ctx context.Context, r *Reading) Outcome {
	payload, err := json.Marshal(r)
	if err != nil {
		log.Printf("worker: marshal reading, discarding: %v", err)
		return NackDiscard
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.ingestURL, bytes.NewReader(payload))
	if err != nil {
		log.Printf("worker: build request: %v", err)
		return NackRequeue
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("worker: api unreachable: %v", err)
		return NackRequeue
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return Ack
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// A validation rejection is deterministic; requeueing would loop forever.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("worker: api rejected reading, discarding: status=%d body=%s", resp.StatusCode, body)
		return NackDiscard
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("worker: api error: status=%d body=%s", resp.StatusCode, body)
		return NackRequeue
	}
}
