// Worker consumes weather readings from the AMQP queue and forwards them to
// the API's public ingest endpoint. Set AMQP_URL, AMQP_QUEUE, and INGEST_URL.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"gdash/backend/internal/config"
	"gdash/backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("worker: AMQP_URL is required")
	}
	if cfg.IngestURL == "" {
		log.Fatal("worker: INGEST_URL is required")
	}
	queue := cfg.AMQPQueue
	if queue == "" {
		queue = "weather_data"
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("worker: connect to broker: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("worker: open channel: %v", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Fatalf("worker: declare queue: %v", err)
	}

	// Manual ack so a failed forward returns the reading to the queue.
	msgs, err := ch.ConsumeWithContext(context.Background(),
		q.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("worker: register consumer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	fwd := worker.NewForwarder(&http.Client{Timeout: 10 * time.Second}, cfg.IngestURL)

	log.Printf("worker: consuming %s, forwarding to %s", q.Name, cfg.IngestURL)
	for {
		select {
		case <-ctx.Done():
			log.Println("worker: stopped")
			return
		case d, ok := <-msgs:
			if !ok {
				log.Println("worker: channel closed")
				return
			}
			switch fwd.Process(ctx, d.Body) {
			case worker.Ack:
				_ = d.Ack(false)
			case worker.NackDiscard:
				_ = d.Nack(false, false)
			case worker.NackRequeue:
				_ = d.Nack(false, true)
			}
		}
	}
}
