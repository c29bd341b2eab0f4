package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// usageEventQueue carries outbound-send events published by the
// Communication Service. The gateway consumes them into usage records.
const usageEventQueue = "usage_events"

const (
	reconnectDelay = 5 * time.Second
	reInitDelay    = 2 * time.Second
	publishTimeout = 30 * time.Second
)

// AMPQClient handles connection recovery, consumption, and publishing for
// the usage-event queue.
type AMPQClient struct {
	m               *sync.Mutex
	queues          []string
	connection      *amqp.Connection
	channel         *amqp.Channel
	done            chan bool
	notifyConnClose chan *amqp.Error
	notifyChanClose chan *amqp.Error
	isReady         bool
}

// NewUsageQueueClient creates a queue client and starts the reconnect loop.
func NewUsageQueueClient(addr string, queues []string) *AMPQClient {
	client := &AMPQClient{
		m:      &sync.Mutex{},
		queues: queues,
		done:   make(chan bool),
	}
	go client.handleReconnect(addr)
	return client
}

// Close cleanly shuts down the channel and connection.
func (client *AMPQClient) Close() error {
	client.m.Lock()
	defer client.m.Unlock()

	if !client.isReady {
		return fmt.Errorf("connection already closed")
	}
	close(client.done)
	if err := client.channel.Close(); err != nil {
		return err
	}
	if err := client.connection.Close(); err != nil {
		return err
	}
	client.isReady = false
	return nil
}

func (client *AMPQClient) handleReconnect(addr string) {
	for {
		client.m.Lock()
		client.isReady = false
		client.m.Unlock()

		conn, err := amqp.Dial(addr)
		if err != nil {
			logf := LoggingFormat{
				Type:    LogType.Queue,
				Level:   logrus.WarnLevel,
				Message: "failed to connect to AMQP, retrying",
				Error:   err,
			}
			logf.Print()
			select {
			case <-client.done:
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}

		client.changeConnection(conn)
		if done := client.handleReInit(conn); done {
			return
		}
	}
}

func (client *AMPQClient) handleReInit(conn *amqp.Connection) bool {
	for {
		client.m.Lock()
		client.isReady = false
		client.m.Unlock()

		if err := client.init(conn); err != nil {
			select {
			case <-client.done:
				return true
			case <-client.notifyConnClose:
				return false
			case <-time.After(reInitDelay):
			}
			continue
		}

		select {
		case <-client.done:
			return true
		case <-client.notifyConnClose:
			return false
		case <-client.notifyChanClose:
			// channel closed, re-init
		}
	}
}

func (client *AMPQClient) init(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	for _, queue := range client.queues {
		_, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %q: %w", queue, err)
		}
	}

	client.changeChannel(ch)
	client.m.Lock()
	client.isReady = true
	client.m.Unlock()
	return nil
}

func (client *AMPQClient) changeConnection(conn *amqp.Connection) {
	client.connection = conn
	client.notifyConnClose = make(chan *amqp.Error, 1)
	client.connection.NotifyClose(client.notifyConnClose)
}

func (client *AMPQClient) changeChannel(ch *amqp.Channel) {
	client.channel = ch
	client.notifyChanClose = make(chan *amqp.Error, 1)
	client.channel.NotifyClose(client.notifyChanClose)
}

// Publish sends one JSON payload to the named queue.
func (client *AMPQClient) Publish(queueName string, data []byte) error {
	client.m.Lock()
	defer client.m.Unlock()

	if !client.isReady || client.channel == nil {
		return fmt.Errorf("queue not ready")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return client.channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	)
}

// ConsumeMessages starts consuming from a queue with per-message acks.
func (client *AMPQClient) ConsumeMessages(queueName string) (<-chan amqp.Delivery, error) {
	client.m.Lock()
	defer client.m.Unlock()

	if !client.isReady || client.channel == nil {
		return nil, fmt.Errorf("queue not ready")
	}
	if err := client.channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return client.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}
