package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	HTTPAddr string

	// Motion engine
	ExecutorTick      time.Duration
	BroadcastInterval time.Duration
	SubscriberBuffer  int
	ChainPath         string

	// MQTT
	MQTTEnabled     bool
	MQTTBroker      string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string

	// Application
	LogLevel        string
	ShutdownTimeout time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	executorTickMS, _ := strconv.Atoi(getEnv("EXECUTOR_TICK_MS", "20"))
	broadcastMS, _ := strconv.Atoi(getEnv("BROADCAST_INTERVAL_MS", "50"))
	subscriberBuffer, _ := strconv.Atoi(getEnv("SUBSCRIBER_BUFFER", "8"))
	shutdownSec, _ := strconv.Atoi(getEnv("SHUTDOWN_TIMEOUT_SECONDS", "30"))
	mqttEnabled, _ := strconv.ParseBool(getEnv("MQTT_ENABLED", "false"))

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		ExecutorTick:      time.Duration(executorTickMS) * time.Millisecond,
		BroadcastInterval: time.Duration(broadcastMS) * time.Millisecond,
		SubscriberBuffer:  subscriberBuffer,
		ChainPath:         getEnv("CHAIN_CONFIG", ""),

		MQTTEnabled:     mqttEnabled,
		MQTTBroker:      getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "arm-control"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "arm/v1"),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: time.Duration(shutdownSec) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
