package opcua

import (
	"context"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/evaluator"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/samples"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/thresholds"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/gopcua/opcua/ua"
	"github.com/matryer/is"
)

func TestConfigValidation(t *testing.T) {
	is := is.New(t)

	_, err := NewCollector(Config{}, samples.NewStore())
	is.True(err != nil)

	_, err = NewCollector(Config{
		Endpoint: "opc.tcp://plc:4840",
		Nodes:    []NodeConfig{{NodeID: "ns=2;s=Temp", MachineID: "m1", Metric: "torque"}},
	}, samples.NewStore())
	is.True(err != nil)

	c, err := NewCollector(Config{
		Endpoint: "opc.tcp://plc:4840",
		Nodes:    []NodeConfig{{NodeID: "ns=2;s=Temp", MachineID: "m1", Metric: "temperature"}},
	}, samples.NewStore())
	is.NoErr(err)
	is.Equal(c.cfg.PublishInterval, time.Second)
}

func TestDataChangesAreWrittenToTheStore(t *testing.T) {
	is := is.New(t)

	store := samples.NewStore()
	c, err := NewCollector(Config{
		Endpoint: "opc.tcp://plc:4840",
		Nodes: []NodeConfig{
			{NodeID: "ns=2;s=Temp", MachineID: "m1", Metric: "temperature"},
			{NodeID: "ns=2;s=Volt", MachineID: "m1", Metric: "voltage"},
		},
	}, store)
	is.NoErr(err)

	ts := time.Now().UTC()

	c.process(context.Background(), &ua.DataChangeNotification{
		MonitoredItems: []*ua.MonitoredItemNotification{
			{ClientHandle: 1, Value: &ua.DataValue{Value: ua.MustVariant(float32(95)), SourceTimestamp: ts}},
			{ClientHandle: 2, Value: &ua.DataValue{Value: ua.MustVariant(int32(200)), SourceTimestamp: ts}},
			{ClientHandle: 3, Value: &ua.DataValue{Value: ua.MustVariant(float64(1))}},
			{ClientHandle: 2, Value: &ua.DataValue{Value: ua.MustVariant("text")}},
		},
	})

	s, ok := store.Latest("m1")
	is.True(ok)
	temperature, _ := s.Value(types.MetricTemperature)
	voltage, _ := s.Value(types.MetricVoltage)
	is.Equal(temperature, 95.0)
	is.Equal(voltage, 200.0)
}

func TestSingleMappedNodeLeavesOtherMetricsUnreported(t *testing.T) {
	is := is.New(t)

	store := samples.NewStore()
	c, err := NewCollector(Config{
		Endpoint: "opc.tcp://plc:4840",
		Nodes:    []NodeConfig{{NodeID: "ns=2;s=Temp", MachineID: "m1", Metric: "temperature"}},
	}, store)
	is.NoErr(err)

	c.process(context.Background(), &ua.DataChangeNotification{
		MonitoredItems: []*ua.MonitoredItemNotification{
			{ClientHandle: 1, Value: &ua.DataValue{Value: ua.MustVariant(float64(95)), SourceTimestamp: time.Now().UTC()}},
		},
	})

	s, ok := store.Latest("m1")
	is.True(ok)
	is.Equal(s.Reported(), []string{types.MetricTemperature})

	events := evaluator.Evaluate(types.Machine{ID: "m1", Name: "Press 01"}, s, thresholds.Default())
	is.Equal(len(events), 1)
	is.Equal(events[0].AlertType, "Overheating")
}
