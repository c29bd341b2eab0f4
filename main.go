package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logf := LoggingFormat{
			Type:    LogType.Startup,
			Level:   logrus.WarnLevel,
			Message: "no .env file, using existing environment variables",
		}
		logf.Print()
	}

	gateway, err := NewGateway()
	if err != nil {
		logf := LoggingFormat{
			Type:    LogType.Startup,
			Level:   logrus.ErrorLevel,
			Message: "failed to create routing gateway",
			Error:   err,
		}
		logf.Print()
		os.Exit(1)
	}

	prometheus.MustRegister(NewMetricExporter(gateway))
	go func() {
		exporter := &PrometheusExporter{
			Path:   "/metrics",
			Listen: envOr("PROMETHEUS_LISTEN", ":2550"),
		}
		if err := exporter.Start(); err != nil {
			logf := LoggingFormat{
				Type:    LogType.Startup,
				Level:   logrus.ErrorLevel,
				Message: "metrics listener stopped",
				Error:   err,
			}
			logf.Print()
		}
	}()

	logf := LoggingFormat{
		Type:    LogType.Startup,
		Level:   logrus.InfoLevel,
		Message: "routing gateway starting",
	}
	logf.AddField("countries", len(gateway.Engine.Directory().Codes()))
	logf.Print()

	if err := startWebServer(gateway); err != nil {
		logf := LoggingFormat{
			Type:    LogType.Startup,
			Level:   logrus.ErrorLevel,
			Message: "web server stopped",
			Error:   err,
		}
		logf.Print()
		os.Exit(1)
	}
}
