package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"arm-control/broadcast"
	"arm-control/config"
	"arm-control/models"
	"arm-control/motion"
)

// Client wraps the PAHO MQTT client and bridges the motion engine to a
// broker: motion requests arrive on <prefix>/command and every broadcast
// snapshot is republished on <prefix>/state.
type Client struct {
	client      mqtt.Client
	executor    *motion.Executor
	broadcaster *broadcast.Broadcaster
	logger      *slog.Logger
	prefix      string
	sub         *broadcast.Subscription
}

// NewClient creates and connects a new MQTT client.
func NewClient(cfg *config.Config, executor *motion.Executor, broadcaster *broadcast.Broadcaster, logger *slog.Logger) (*Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetUsername(cfg.MQTTUsername).
		SetPassword(cfg.MQTTPassword).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(1 * time.Second).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(10 * time.Second).
		SetCleanSession(true)

	mqttClient := &Client{
		executor:    executor,
		broadcaster: broadcaster,
		logger:      logger.With("component", "mqtt_client"),
		prefix:      cfg.MQTTTopicPrefix,
	}

	opts.SetOnConnectHandler(mqttClient.onConnect)
	opts.SetConnectionLostHandler(mqttClient.onConnectionLost)
	client := mqtt.NewClient(opts)
	mqttClient.client = client

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	mqttClient.sub = broadcaster.Subscribe()
	go mqttClient.publishLoop()
	return mqttClient, nil
}

// Disconnect stops state publishing and gracefully disconnects the client.
func (c *Client) Disconnect() {
	c.broadcaster.Unsubscribe(c.sub)
	if c.client.IsConnected() {
		c.client.Disconnect(250)
		c.logger.Info("MQTT client disconnected")
	}
}

func (c *Client) onConnect(client mqtt.Client) {
	c.logger.Info("Successfully connected to MQTT broker. Subscribing to topics...")
	c.subscribe(c.prefix+"/command", c.handleCommand)
}

func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	c.logger.Error("Connection lost. Reconnecting...", slog.Any("error", err))
}

func (c *Client) subscribe(topic string, handler mqtt.MessageHandler) {
	if token := c.client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
		c.logger.Error("Failed to subscribe to topic", "topic", topic, slog.Any("error", token.Error()))
	} else {
		c.logger.Info("Successfully subscribed to topic", "topic", topic)
	}
}

// handleCommand decodes a MotionRequest from the command topic and hands
// it to the executor. Rejected requests are logged, never retried.
func (c *Client) handleCommand(client mqtt.Client, msg mqtt.Message) {
	var req models.MotionRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		c.logger.Error("Failed to parse motion request", "topic", msg.Topic(), slog.Any("error", err))
		return
	}
	if err := c.executor.Execute(req); err != nil {
		c.logger.Warn("Motion request rejected", "type", string(req.Type), slog.Any("error", err))
		return
	}
	c.logger.Info("Motion request accepted", "type", string(req.Type))
}

// publishLoop republishes broadcast snapshots on the state topic until
// the subscription is closed. QoS 0: stale telemetry is worthless.
func (c *Client) publishLoop() {
	topic := c.prefix + "/state"
	for snap := range c.sub.C {
		payload, err := json.Marshal(snap)
		if err != nil {
			c.logger.Error("Failed to serialize state snapshot", slog.Any("error", err))
			continue
		}
		c.client.Publish(topic, 0, false, payload)
	}
	c.logger.Info("State publishing stopped")
}
