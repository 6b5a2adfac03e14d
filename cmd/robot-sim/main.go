// FilePath: cmd/robot-sim/main.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	flag "github.com/spf13/pflag"
	nuts "github.com/vaudience/go-nuts"
)

var (
	mode     = flag.String("mode", "http", "transport: http or mqtt")
	url      = flag.String("url", "http://localhost:8000/api/robots/data", "telemetry endpoint (http mode)")
	broker   = flag.String("broker", "tcp://localhost:1883", "MQTT broker address (mqtt mode)")
	robots   = flag.Int("robots", 5, "number of simulated robots")
	interval = flag.Duration("interval", 2*time.Second, "publish interval per robot")
	zones    = flag.StringSlice("zones", []string{"A", "B", "C", "D"}, "warehouse zones")
	products = flag.StringSlice("products", []string{"TEL-4567", "TEL-8901", "TEL-2345", "TEL-6789", "TEL-3456"}, "product ids to scan")
)

type robot struct {
	id       string
	battery  float64
	location models.Location
}

type publisher func(ctx context.Context, r *robot, payload []byte) error

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publish publisher
	switch *mode {
	case "http":
		publish = httpPublisher(*url)
	case "mqtt":
		p, disconnect, err := mqttPublisher(*broker)
		if err != nil {
			nuts.L.Fatalf("[RobotSim] %v", err)
		}
		defer disconnect()
		publish = p
	default:
		nuts.L.Fatalf("[RobotSim] unknown mode %q", *mode)
	}

	fleet := make([]*robot, *robots)
	for i := range fleet {
		fleet[i] = &robot{
			id:       fmt.Sprintf("RB-%03d", i+1),
			battery:  60 + rand.Float64()*40,
			location: randomLocation(),
		}
	}
	nuts.L.Infof("[RobotSim] simulating %d robots via %s every %s", len(fleet), *mode, *interval)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[RobotSim] stopped")
			return
		case <-ticker.C:
			for _, r := range fleet {
				r.step()
				payload, err := json.Marshal(r.report(time.Now()))
				if err != nil {
					nuts.L.Errorf("[RobotSim] encode %s: %v", r.id, err)
					continue
				}
				if err := publish(ctx, r, payload); err != nil {
					nuts.L.Warnf("[RobotSim] publish %s: %v", r.id, err)
				}
			}
		}
	}
}

func (r *robot) step() {
	r.battery -= rand.Float64() * 1.5
	if r.battery < 5 {
		r.battery = 100
	}
	r.location = randomLocation()
}

func (r *robot) report(now time.Time) models.TelemetryReport {
	n := 1 + rand.Intn(3)
	scans := make([]models.ScanResult, 0, n)
	for i := 0; i < n; i++ {
		qty := rand.Intn(60)
		scans = append(scans, models.ScanResult{
			ProductID: (*products)[rand.Intn(len(*products))],
			Quantity:  &qty,
		})
	}
	next := randomLocation()
	battery := r.battery
	return models.TelemetryReport{
		RobotID:        r.id,
		Timestamp:      now.UTC().Format(time.RFC3339Nano),
		Location:       r.location,
		ScanResults:    scans,
		BatteryLevel:   &battery,
		NextCheckpoint: fmt.Sprintf("%s-%d-%d", next.Zone, next.Row, next.Shelf),
	}
}

func randomLocation() models.Location {
	return models.Location{
		Zone:  (*zones)[rand.Intn(len(*zones))],
		Row:   1 + rand.Intn(20),
		Shelf: 1 + rand.Intn(6),
	}
}

func httpPublisher(endpoint string) publisher {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(ctx context.Context, _ *robot, payload []byte) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}
		return nil
	}
}

func mqttPublisher(brokerAddr string) (publisher, func(), error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerAddr).
		SetClientID(nuts.NID("robot-sim", 8))
	opts.SetOrderMatters(false)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("failed to connect to broker %s: %w", brokerAddr, token.Error())
	}

	publish := func(_ context.Context, r *robot, payload []byte) error {
		topic := fmt.Sprintf("warehouse/robots/%s/telemetry", r.id)
		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		return token.Error()
	}
	return publish, func() { client.Disconnect(250) }, nil
}
