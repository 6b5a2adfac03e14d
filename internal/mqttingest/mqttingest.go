// FilePath: internal/mqttingest/mqttingest.go
package mqttingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const ingestTimeout = 10 * time.Second

// Ingester is the telemetry reconciler
type Ingester interface {
	Ingest(ctx context.Context, report models.TelemetryReport) (*models.IngestAck, error)
}

// Subscriber feeds telemetry published on the broker into the reconciler,
// the same way the HTTP endpoint does.
type Subscriber struct {
	cfg      config.MQTTConfig
	ingester Ingester
	client   mqtt.Client

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	onDone func(ack *models.IngestAck, err error)
}

func New(cfg config.MQTTConfig, ingester Ingester) *Subscriber {
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscriber{cfg: cfg, ingester: ingester, ctx: ctx, cancel: cancel}
}

// OnResult registers a callback invoked after every handled message
func (s *Subscriber) OnResult(fn func(ack *models.IngestAck, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDone = fn
}

// Start connects to the broker and subscribes to the telemetry topic.
// Subscriptions are renewed on every reconnect.
func (s *Subscriber) Start() error {
	// unique per process so several hubs can share a broker
	clientID := nuts.NID(s.cfg.ClientID, 6)
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOrderMatters(false)
	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		token := c.Subscribe(s.cfg.Topic, s.cfg.QoS, s.handleMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			nuts.L.Errorf("[MQTT] subscribe to %s failed: %v", s.cfg.Topic, err)
			return
		}
		nuts.L.Infof("[MQTT] subscribed to %s on %s", s.cfg.Topic, s.cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		nuts.L.Warnf("[MQTT] connection lost: %v", err)
	})

	s.client = mqtt.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		nuts.L.Warnf("[MQTT] broker %s not reachable yet, retrying in background", s.cfg.Broker)
		return nil
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to broker %s: %w", s.cfg.Broker, err)
	}
	return nil
}

// Stop disconnects and cancels in-flight ingests
func (s *Subscriber) Stop() {
	s.cancel()
	if s.client != nil {
		s.client.Disconnect(250)
	}
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	ack, err := s.process(msg.Topic(), msg.Payload())
	if err != nil {
		nuts.L.Warnf("[MQTT] rejected telemetry on %s: %v", msg.Topic(), err)
	} else {
		nuts.L.Debugf("[MQTT] %s accepted as %s", msg.Topic(), ack.MessageID)
	}

	s.mu.Lock()
	fn := s.onDone
	s.mu.Unlock()
	if fn != nil {
		fn(ack, err)
	}
}

func (s *Subscriber) process(topic string, payload []byte) (*models.IngestAck, error) {
	var report models.TelemetryReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	if topicID := robotIDFromTopic(topic); topicID != "" {
		switch {
		case report.RobotID == "":
			report.RobotID = topicID
		case report.RobotID != topicID:
			return nil, fmt.Errorf("robot_id %q does not match topic %q", report.RobotID, topic)
		}
	}

	ctx, cancel := context.WithTimeout(s.ctx, ingestTimeout)
	defer cancel()
	return s.ingester.Ingest(ctx, report)
}

// robotIDFromTopic extracts the robot id from warehouse/robots/{id}/telemetry
func robotIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "robots" && parts[i+2] == "telemetry" {
			return parts[i+1]
		}
	}
	return ""
}
