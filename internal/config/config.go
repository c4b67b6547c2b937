package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	HTTP     HTTPConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type HTTPConfig struct {
	OrderPort       int
	TablePort       int
	StaffPort       int
	OrderServiceURL string
}

type EngineConfig struct {
	GraceSeconds int // pending-order grace period
	PollSeconds  int // staff bucket poll interval
}

// Load reads the two-level YAML config. The format is simple enough that
// a purpose-built reader covers it without an external package.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/"},
		HTTP:     HTTPConfig{OrderPort: 3000, TablePort: 3001, StaffPort: 3002, OrderServiceURL: "http://localhost:3000"},
		Engine:   EngineConfig{GraceSeconds: 120, PollSeconds: 10},
	}

	var section string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			section = strings.TrimSuffix(line, ":")
			continue
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.Trim(strings.TrimSpace(kv[1]), `"'`)

		switch section {
		case "database":
			cfg.Database.set(key, val)
		case "rabbitmq":
			cfg.RabbitMQ.set(key, val)
		case "http":
			cfg.HTTP.set(key, val)
		case "engine":
			cfg.Engine.set(key, val)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Database == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.RabbitMQ.Host == "" || cfg.RabbitMQ.User == "" {
		return nil, fmt.Errorf("rabbitmq config incomplete")
	}
	return cfg, nil
}

func (d *DatabaseConfig) set(key, val string) {
	switch key {
	case "host":
		d.Host = val
	case "port":
		d.Port = atoi(val, d.Port)
	case "user":
		d.User = val
	case "password":
		d.Password = val
	case "database":
		d.Database = val
	case "sslmode":
		if val != "" {
			d.SSLMode = val
		}
	case "max_conns":
		d.MaxConns = atoi(val, d.MaxConns)
	}
}

func (m *RabbitMQConfig) set(key, val string) {
	switch key {
	case "host":
		m.Host = val
	case "port":
		m.Port = atoi(val, m.Port)
	case "user":
		m.User = val
	case "password":
		m.Password = val
	case "vhost":
		if val != "" {
			m.VHost = val
		}
	}
}

func (h *HTTPConfig) set(key, val string) {
	switch key {
	case "order_port":
		h.OrderPort = atoi(val, h.OrderPort)
	case "table_port":
		h.TablePort = atoi(val, h.TablePort)
	case "staff_port":
		h.StaffPort = atoi(val, h.StaffPort)
	case "order_service_url":
		h.OrderServiceURL = val
	}
}

func (e *EngineConfig) set(key, val string) {
	switch key {
	case "grace_seconds":
		e.GraceSeconds = atoi(val, e.GraceSeconds)
	case "poll_seconds":
		e.PollSeconds = atoi(val, e.PollSeconds)
	}
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
