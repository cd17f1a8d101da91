// Package devicesim is a minimal simulated platform device. It connects to
// the broker the way real devices do: credentials-secret authentication,
// introspection announcement on connect, then interface values published
// under the device's topic root. Useful for exercising a realm end to end
// without hardware.
package devicesim

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	jsoniter "github.com/json-iterator/go"

	"github.com/canopyhq/canopy-go/types"
	"github.com/canopyhq/canopy-go/utils"
)

const connectTimeout = time.Second * 10

// SimulatorConfig configures one simulated device.
type SimulatorConfig struct {
	// BrokerURL of the platform's MQTT endpoint, eg ssl://broker.example.com:8883
	BrokerURL string
	Realm     string
	// DeviceID to connect as. Empty generates a fresh one.
	DeviceID string
	// CredentialsSecret obtained from device registration
	CredentialsSecret string
}

// Simulator is one simulated device connection. Create with NewSimulator,
// declare interfaces, then Connect.
type Simulator struct {
	cfg        SimulatorConfig
	client     mqtt.Client
	interfaces []*types.Interface
}

// NewSimulator creates a simulator for the given device identity.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.DeviceID == "" {
		cfg.DeviceID = utils.GenerateDeviceID()
	}
	return &Simulator{cfg: cfg}
}

// DeviceID returns the identity the simulator connects as.
func (sim *Simulator) DeviceID() string {
	return sim.cfg.DeviceID
}

// AddInterface declares an interface the device will announce in its
// introspection. Must be called before Connect.
func (sim *Simulator) AddInterface(iface *types.Interface) {
	sim.interfaces = append(sim.interfaces, iface)
}

// topicRoot is the root of all topics of this device.
func (sim *Simulator) topicRoot() string {
	return sim.cfg.Realm + "/" + sim.cfg.DeviceID
}

// Connect establishes the broker session and announces the introspection.
func (sim *Simulator) Connect() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(sim.cfg.BrokerURL)
	opts.SetClientID(sim.topicRoot())
	opts.SetUsername(sim.cfg.Realm + "/" + sim.cfg.DeviceID)
	opts.SetPassword(sim.cfg.CredentialsSecret)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)

	sim.client = mqtt.NewClient(opts)
	token := sim.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("Connect: timeout connecting to %s", sim.cfg.BrokerURL)
	}
	if token.Error() != nil {
		return fmt.Errorf("Connect: %w", token.Error())
	}
	slog.Info("device simulator connected",
		slog.String("deviceID", sim.cfg.DeviceID),
		slog.String("broker", sim.cfg.BrokerURL))
	return sim.publishIntrospection()
}

// publishIntrospection announces the declared interfaces, the same
// "name:major:minor;..." form real devices send on session setup.
func (sim *Simulator) publishIntrospection() error {
	entries := make([]string, 0, len(sim.interfaces))
	for _, iface := range sim.interfaces {
		entries = append(entries, fmt.Sprintf("%s:%d:%d", iface.Name, iface.Major, iface.Minor))
	}
	token := sim.client.Publish(sim.topicRoot(), 2, false, strings.Join(entries, ";"))
	token.Wait()
	return token.Error()
}

// SendValue publishes one value on an individual interface path.
func (sim *Simulator) SendValue(interfaceName string, path string, value any) error {
	if sim.client == nil || !sim.client.IsConnected() {
		return fmt.Errorf("SendValue: not connected")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("SendValue: path '%s' must start with /", path)
	}
	payload, err := jsoniter.Marshal(map[string]any{"v": value})
	if err != nil {
		return fmt.Errorf("SendValue: %w", err)
	}
	topic := sim.topicRoot() + "/" + interfaceName + path
	token := sim.client.Publish(topic, 2, false, payload)
	token.Wait()
	return token.Error()
}

// SendAggregate publishes an aggregated object on an object interface path.
func (sim *Simulator) SendAggregate(interfaceName string, path string, values map[string]any) error {
	if sim.client == nil || !sim.client.IsConnected() {
		return fmt.Errorf("SendAggregate: not connected")
	}
	payload, err := jsoniter.Marshal(map[string]any{"v": values, "t": time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("SendAggregate: %w", err)
	}
	topic := sim.topicRoot() + "/" + interfaceName + path
	token := sim.client.Publish(topic, 2, false, payload)
	token.Wait()
	return token.Error()
}

// Disconnect ends the broker session.
func (sim *Simulator) Disconnect() {
	if sim.client != nil && sim.client.IsConnected() {
		sim.client.Disconnect(250)
	}
}
