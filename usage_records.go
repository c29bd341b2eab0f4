package main

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// UsageEvent is the JSON payload the Communication Service publishes after
// each outbound send.
type UsageEvent struct {
	AccountID uint      `json:"account_id"`
	From      string    `json:"from_number"`
	To        string    `json:"to_number"`
	Channel   string    `json:"channel"` // "sms" or "voice"
	Units     float64   `json:"units"`   // message count or call minutes
	Timestamp time.Time `json:"timestamp"`
	LogID     string    `json:"log_id"`
}

// UsageRecordDBItem is the persisted form of a usage event, with the
// destination country resolved once at insert.
type UsageRecordDBItem struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	AccountID          uint      `gorm:"index;not null" json:"account_id"`
	FromNumber         string    `json:"from_number"`
	ToNumber           string    `json:"to_number"`
	DestinationCountry string    `gorm:"index" json:"destination_country"`
	Channel            string    `json:"channel"`
	Units              float64   `json:"units"`
	ReceivedTimestamp  time.Time `json:"received_timestamp"`
	LogID              string    `json:"log_id"`
}

// processUsageEvents consumes the usage-event queue and writes records.
// Malformed events are dropped (nack without requeue) so one bad producer
// cannot wedge the queue.
func (gateway *Gateway) processUsageEvents() {
	for {
		deliveries, err := gateway.AMPQClient.ConsumeMessages(usageEventQueue)
		if err != nil {
			time.Sleep(reconnectDelay)
			continue
		}

		for delivery := range deliveries {
			var event UsageEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				logf := LoggingFormat{
					Type:    LogType.Queue,
					Level:   logrus.ErrorLevel,
					Message: "dropping malformed usage event",
					Error:   err,
				}
				logf.Print()
				_ = delivery.Nack(false, false)
				continue
			}

			if err := gateway.insertUsageRecord(&event); err != nil {
				logf := LoggingFormat{
					Type:    LogType.Queue,
					Level:   logrus.ErrorLevel,
					Message: "failed to store usage record",
					Error:   err,
				}
				logf.AddField("logID", event.LogID)
				logf.AddField("accountID", event.AccountID)
				logf.Print()
				_ = delivery.Nack(false, true)
				continue
			}

			gateway.Metrics.UsageEventsConsumed.Inc()
			_ = delivery.Ack(false)
		}
	}
}

// insertUsageRecord normalizes the destination and persists one record. An
// unresolvable destination is stored with an empty country; analytics drops
// those rows the same way the engine drops unresolvable numbers.
func (gateway *Gateway) insertUsageRecord(event *UsageEvent) error {
	to, err := FormatToE164(event.To)
	if err == nil {
		event.To = to
	}

	country, _ := gateway.Engine.Directory().ResolveCountry(event.To)

	record := UsageRecordDBItem{
		AccountID:          event.AccountID,
		FromNumber:         event.From,
		ToNumber:           event.To,
		DestinationCountry: country,
		Channel:            event.Channel,
		Units:              event.Units,
		ReceivedTimestamp:  event.Timestamp,
		LogID:              event.LogID,
	}
	if record.ReceivedTimestamp.IsZero() {
		record.ReceivedTimestamp = time.Now()
	}
	return gateway.DB.Create(&record).Error
}

// recentDestinations returns the destination numbers an account contacted
// since the cutoff, newest first. Feeds Analyze.
func (gateway *Gateway) recentDestinations(accountID uint, since time.Time) ([]string, error) {
	var records []UsageRecordDBItem
	err := gateway.DB.
		Where("account_id = ? AND received_timestamp >= ?", accountID, since).
		Order("received_timestamp DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	destinations := make([]string, 0, len(records))
	for _, r := range records {
		destinations = append(destinations, r.ToNumber)
	}
	return destinations, nil
}
