/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package events announces finished seed runs on an AMQP topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyReseeded is the routing key of a Reseeded message.
const RoutingKeyReseeded = "collection.reseeded"

// Reseeded is published after a collection was reset and filled.
type Reseeded struct {
	Backend    string    `json:"backend"`
	Database   string    `json:"database"`
	Collection string    `json:"collection"`
	Sets       []string  `json:"sets"`
	Dropped    int64     `json:"dropped"`
	Inserted   int       `json:"inserted"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher sends JSON messages to a durable topic exchange. A nil
// *Publisher is valid and drops every message.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewPublisher dials url and declares exchange. An empty url returns a nil
// publisher and no error.
func NewPublisher(url, exchange string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish marshals v as JSON and sends it with routing key key.
func (p *Publisher) Publish(ctx context.Context, key string, v interface{}) error {
	if p == nil || p.ch == nil {
		return nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
}

// PublishReseeded sends msg under RoutingKeyReseeded.
func (p *Publisher) PublishReseeded(ctx context.Context, msg Reseeded) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	return p.Publish(ctx, RoutingKeyReseeded, msg)
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	_ = p.ch.Close()
	return p.conn.Close()
}
