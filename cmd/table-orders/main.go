package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"table-orders/internal/common/logger"
	"table-orders/internal/config"
	"table-orders/internal/connections/database"
	"table-orders/internal/connections/rabbitmq"
	"table-orders/internal/microservices/notificator"
	"table-orders/internal/microservices/orders"
	"table-orders/internal/microservices/staff"
	"table-orders/internal/microservices/tables"
)

func main() {
	mode := flag.String("mode", "", "order-service | table-service | staff-service | notification-subscriber")
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	port := flag.Int("port", 0, "http port override for services that expose HTTP")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *configPath})
		os.Exit(1)
	}

	switch *mode {
	case "order-service":
		if *port == 0 {
			*port = cfg.HTTP.OrderPort
		}
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		defer pool.Close()
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		defer rmq.Close()
		lg.Info("service_started", map[string]any{"service": "order-service", "port": *port})
		if err := orders.Run(ctx, *port, pool, rmq); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "table-service":
		if *port == 0 {
			*port = cfg.HTTP.TablePort
		}
		grace := time.Duration(cfg.Engine.GraceSeconds) * time.Second
		lg.Info("service_started", map[string]any{"service": "table-service", "port": *port})
		if err := tables.Run(ctx, *port, cfg.HTTP.OrderServiceURL, grace); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "staff-service":
		if *port == 0 {
			*port = cfg.HTTP.StaffPort
		}
		poll := time.Duration(cfg.Engine.PollSeconds) * time.Second
		lg.Info("service_started", map[string]any{"service": "staff-service", "port": *port})
		if err := staff.Run(ctx, *port, cfg.HTTP.OrderServiceURL, poll); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		defer rmq.Close()
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		if err := notificator.Run(ctx, rmq); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: order-service | table-service | staff-service | notification-subscriber")
		os.Exit(2)
	}
}
