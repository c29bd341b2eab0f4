package main

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"smartroute-gw/routing"
)

// Gateway wires the routing engine to its inventory store, usage-event
// queue, and metrics. The engine itself is stateless; all mutable state here
// is the account/number inventory guarded by mu.
type Gateway struct {
	Engine     *routing.Engine
	DB         *gorm.DB
	AMPQClient *AMPQClient
	Metrics    *RoutingMetrics

	Accounts map[uint]*Account
	Numbers  map[string]*OwnedNumber
	mu       sync.RWMutex
}

// NewGateway builds the gateway: routing engine over the static tables,
// Postgres inventory, and (if configured) the usage-event queue consumer.
func NewGateway() (*Gateway, error) {
	gateway := &Gateway{
		Engine:   routing.NewDefaultEngine(),
		Metrics:  NewRoutingMetrics(),
		Accounts: make(map[uint]*Account),
		Numbers:  make(map[string]*OwnedNumber),
	}

	db, err := ConnectDB()
	if err != nil {
		return nil, err
	}
	gateway.DB = db

	if err := gateway.loadAccounts(); err != nil {
		return nil, err
	}

	if addr := os.Getenv("AMQP_URL"); addr != "" {
		gateway.AMPQClient = NewUsageQueueClient(addr, []string{usageEventQueue})
		go gateway.processUsageEvents()
	} else {
		logf := LoggingFormat{
			Type:    LogType.Startup,
			Level:   logrus.WarnLevel,
			Message: "AMQP_URL not set, usage-event ingestion disabled",
		}
		logf.Print()
	}

	return gateway, nil
}
