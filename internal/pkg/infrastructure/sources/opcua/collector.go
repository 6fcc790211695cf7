package opcua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"
	"github.com/samber/lo"
)

type Config struct {
	Endpoint         string        `yaml:"endpoint"`
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	SecurityMode     string        `yaml:"securityMode"`
	SecurityPolicy   string        `yaml:"securityPolicy"`
	PublishInterval  time.Duration `yaml:"publishInterval"`
	SamplingInterval time.Duration `yaml:"samplingInterval"`
	Nodes            []NodeConfig  `yaml:"nodes"`
}

// NodeConfig maps one OPC-UA node to a metric of a machine.
type NodeConfig struct {
	NodeID    string `yaml:"nodeId"`
	MachineID string `yaml:"machineId"`
	Metric    string `yaml:"metric"`
}

func (c *Config) ApplyDefaults() {
	if c.SecurityMode == "" {
		c.SecurityMode = "None"
	}
	if c.SecurityPolicy == "" {
		c.SecurityPolicy = "None"
	}
	if c.PublishInterval <= 0 {
		c.PublishInterval = time.Second
	}
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if len(c.Nodes) == 0 {
		return errors.New("at least one node must be configured")
	}

	known := append([]string{types.MetricRuntime}, types.Metrics...)

	for _, n := range c.Nodes {
		if n.NodeID == "" || n.MachineID == "" {
			return fmt.Errorf("node %q: nodeId and machineId are required", n.NodeID)
		}
		if !lo.Contains(known, n.Metric) {
			return fmt.Errorf("node %q: unknown metric %q", n.NodeID, n.Metric)
		}
	}

	return nil
}

type Sink interface {
	Set(machineID, metric string, value float64, ts time.Time) error
}

// Collector subscribes to data changes on the configured nodes and writes
// each change into the sample store.
type Collector struct {
	cfg       Config
	sink      Sink
	client    *opcua.Client
	sub       *opcua.Subscription
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	handleMap map[uint32]NodeConfig
	mu        sync.Mutex
	started   bool
}

func NewCollector(cfg Config, sink Sink) (*Collector, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Collector{
		cfg:       cfg,
		sink:      sink,
		handleMap: handles(cfg.Nodes),
	}, nil
}

func handles(nodes []NodeConfig) map[uint32]NodeConfig {
	m := make(map[uint32]NodeConfig, len(nodes))
	for i, n := range nodes {
		m[uint32(i+1)] = n
	}
	return m
}

func (c *Collector) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("opcua collector already started")
	}
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	ctx, log := logging.WithComponent(ctx, "opcua-collector")

	client, err := opcua.NewClient(c.cfg.Endpoint, c.clientOptions()...)
	if err != nil {
		cancel()
		return fmt.Errorf("opcua new client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		cancel()
		return fmt.Errorf("opcua connect: %w", err)
	}

	notifyCh := make(chan *opcua.PublishNotificationData, len(c.cfg.Nodes)*4)
	sub, err := client.Subscribe(ctx, &opcua.SubscriptionParameters{
		Interval: c.cfg.PublishInterval,
	}, notifyCh)
	if err != nil {
		cancel()
		_ = client.Close(ctx)
		return fmt.Errorf("opcua subscribe: %w", err)
	}

	for handle, node := range c.handleMap {
		if err := c.monitor(ctx, sub, handle, node); err != nil {
			cancel()
			_ = sub.Cancel(ctx)
			_ = client.Close(ctx)
			return err
		}
	}

	c.mu.Lock()
	c.client = client
	c.sub = sub
	c.cancel = cancel
	c.started = true
	c.mu.Unlock()

	log.Info().Str("endpoint", c.cfg.Endpoint).Int("nodes", len(c.cfg.Nodes)).Msg("opcua collector started")

	c.wg.Add(1)
	go c.consume(ctx, notifyCh)

	return nil
}

func (c *Collector) monitor(ctx context.Context, sub *opcua.Subscription, handle uint32, node NodeConfig) error {
	nodeID, err := ua.ParseNodeID(node.NodeID)
	if err != nil {
		return fmt.Errorf("parse node id %q: %w", node.NodeID, err)
	}

	req := opcua.NewMonitoredItemCreateRequestWithDefaults(nodeID, ua.AttributeIDValue, handle)
	if c.cfg.SamplingInterval > 0 {
		req.RequestedParameters.SamplingInterval = float64(c.cfg.SamplingInterval / time.Millisecond)
	}

	res, err := sub.Monitor(ctx, ua.TimestampsToReturnBoth, req)
	if err != nil {
		return fmt.Errorf("monitor node %q: %w", node.NodeID, err)
	}
	if len(res.Results) == 0 {
		return fmt.Errorf("monitor node %q failed: empty result", node.NodeID)
	}
	if res.Results[0].StatusCode != ua.StatusOK {
		return fmt.Errorf("monitor node %q failed: %s", node.NodeID, res.Results[0].StatusCode)
	}

	return nil
}

func (c *Collector) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	cancel, sub, client := c.cancel, c.sub, c.client
	c.started = false
	c.cancel, c.sub, c.client = nil, nil, nil
	c.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer ctxCancel()

	var err error
	if e := sub.Cancel(ctx); e != nil && !errors.Is(e, context.Canceled) {
		err = errors.Join(err, e)
	}
	if e := client.Close(ctx); e != nil && !errors.Is(e, context.Canceled) {
		err = errors.Join(err, e)
	}

	c.wg.Wait()
	return err
}

func (c *Collector) consume(ctx context.Context, ch <-chan *opcua.PublishNotificationData) {
	defer c.wg.Done()

	log := logging.GetFromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case notif := <-ch:
			if notif == nil {
				continue
			}
			if notif.Error != nil {
				log.Warn().Err(notif.Error).Msg("opcua notification error")
				continue
			}
			c.process(ctx, notif.Value)
		}
	}
}

func (c *Collector) process(ctx context.Context, val any) {
	data, ok := val.(*ua.DataChangeNotification)
	if !ok {
		return
	}

	log := logging.GetFromContext(ctx)

	for _, item := range data.MonitoredItems {
		node, ok := c.handleMap[item.ClientHandle]
		if !ok || item.Value == nil {
			continue
		}

		v, ok := variantToFloat(item.Value.Value)
		if !ok {
			log.Debug().Str("node_id", node.NodeID).Msg("skipping node with non numeric value")
			continue
		}

		ts := item.Value.SourceTimestamp
		if ts.IsZero() {
			ts = item.Value.ServerTimestamp
		}

		if err := c.sink.Set(node.MachineID, node.Metric, v, ts); err != nil {
			log.Warn().Err(err).Str("node_id", node.NodeID).Msg("could not store opcua value")
			continue
		}

		metrics.SamplesIngested.WithLabelValues("opcua").Inc()
	}
}

func (c *Collector) clientOptions() []opcua.Option {
	opts := []opcua.Option{
		opcua.SecurityModeString(normalizeSecurityMode(c.cfg.SecurityMode)),
		opcua.SecurityPolicy(c.cfg.SecurityPolicy),
		opcua.ApplicationName("iot-machine-alerts"),
		opcua.AutoReconnect(true),
	}

	if c.cfg.Username != "" {
		opts = append(opts, opcua.AuthUsername(c.cfg.Username, c.cfg.Password))
	} else {
		opts = append(opts, opcua.AuthAnonymous())
	}

	return opts
}

func variantToFloat(v *ua.Variant) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.Value().(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case int8:
		return float64(val), true
	case uint8:
		return float64(val), true
	case int16:
		return float64(val), true
	case uint16:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		return lo.Ternary(val, 1.0, 0.0), true
	default:
		return 0, false
	}
}

func normalizeSecurityMode(mode string) string {
	switch strings.ToLower(mode) {
	case "sign":
		return "Sign"
	case "signandencrypt", "signencrypt", "sign_and_encrypt":
		return "SignAndEncrypt"
	default:
		return "None"
	}
}
