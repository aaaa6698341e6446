// The consumer renders queued delivery notifications. In production this is
// where a real mail provider would be called; here the email is printed so a
// local compose stack shows the whole pipeline end to end.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/config"
)

// notification mirrors the envelope published by the agent's channel.
type notification struct {
	Token     string    `json:"token"`
	DedupeKey string    `json:"dedupe_key"`
	OrderID   string    `json:"order_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	QueuedAt  time.Time `json:"queued_at"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	brokers := cfg.KafkaBrokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	log.Println("Starting notification consumer...")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.NotifyTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		log.Println("Closing Kafka reader...")
		if err := r.Close(); err != nil {
			log.Printf("Error closing Kafka reader: %v", err)
		}
	}()

	log.Printf("Consumer connected to topic '%s' on brokers %v", cfg.NotifyTopic, brokers)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown signal received, stopping consumer.")
			return
		default:
			m, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					log.Println("Context cancelled, exiting message loop.")
					return
				}
				log.Printf("Error reading message: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}

			var msg notification
			if err := json.Unmarshal(m.Value, &msg); err != nil {
				log.Printf("Skipping undecodable message at offset %d: %v", m.Offset, err)
				continue
			}

			fmt.Printf("\n--- SENDING EMAIL ---\n")
			fmt.Printf("Token:    %s\n", msg.Token)
			fmt.Printf("Order:    %s\n", msg.OrderID)
			fmt.Printf("To:       %s\n", msg.Recipient)
			fmt.Printf("Subject:  %s\n", msg.Subject)
			fmt.Printf("Queued:   %s\n", msg.QueuedAt.Format(time.RFC3339))
			fmt.Printf("\n%s\n", msg.Body)
			fmt.Println("--- EMAIL SENT ---")
		}
	}
}
