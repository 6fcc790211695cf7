package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/monitor"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/notifications"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/recipients"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/thresholds"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/sources/opcua"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/transports/webhook"
	"gopkg.in/yaml.v2"
)

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	controlPort

	policiesFile
	configurationFile
	machinesFile
	operatorsFile

	jwtSecret

	rabbitURL
	rabbitExchange

	kafkaBrokers
	kafkaTopic
	kafkaGroup

	smtpHost
	smtpPort
	smtpUser
	smtpPassword
	smtpFrom

	devMode
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",
		controlPort:   "8000",

		policiesFile:      "/opt/diwise/config/authz.rego",
		configurationFile: "/opt/diwise/config/config.yaml",
		machinesFile:      "/opt/diwise/config/machines.csv",
		operatorsFile:     "/opt/diwise/config/operators.csv",

		rabbitExchange: "machine-alerts",
		kafkaGroup:     "iot-machine-alerts",
		smtpPort:       "587",

		devMode: "false",
	}
}

func parseExternalConfig(ctx context.Context, flags flagMap) flagMap {
	// Allow environment variables to override certain defaults
	envOrDef := func(name string, def string) string {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		return def
	}

	flags[listenAddress] = envOrDef("LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef("SERVICE_PORT", flags[servicePort])
	flags[controlPort] = envOrDef("CONTROL_PORT", flags[controlPort])

	flags[policiesFile] = envOrDef("POLICIES_FILE", flags[policiesFile])
	flags[jwtSecret] = envOrDef("JWT_SECRET", flags[jwtSecret])

	flags[rabbitURL] = envOrDef("RABBITMQ_URL", flags[rabbitURL])
	flags[rabbitExchange] = envOrDef("RABBITMQ_EXCHANGE", flags[rabbitExchange])

	flags[kafkaBrokers] = envOrDef("KAFKA_BROKERS", flags[kafkaBrokers])
	flags[kafkaTopic] = envOrDef("KAFKA_TOPIC", flags[kafkaTopic])
	flags[kafkaGroup] = envOrDef("KAFKA_GROUP", flags[kafkaGroup])

	flags[smtpHost] = envOrDef("SMTP_HOST", flags[smtpHost])
	flags[smtpPort] = envOrDef("SMTP_PORT", flags[smtpPort])
	flags[smtpUser] = envOrDef("SMTP_USER", flags[smtpUser])
	flags[smtpPassword] = envOrDef("SMTP_PASSWORD", flags[smtpPassword])
	flags[smtpFrom] = envOrDef("SMTP_FROM", flags[smtpFrom])

	flags[devMode] = envOrDef("DEV_MODE", flags[devMode])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("policies", "an authorization policy file", apply(policiesFile))
	flag.Func("config", "service configuration file", apply(configurationFile))
	flag.Func("machines", "list of monitored machines", apply(machinesFile))
	flag.Func("operators", "list of operators that may receive notifications", apply(operatorsFile))
	flag.Func("devmode", "enable dev mode", apply(devMode))
	flag.Parse()

	log := logging.GetFromContext(ctx)
	log.Debug().Str("config", flags[configurationFile]).Str("devmode", flags[devMode]).Msg("configuration parsed")

	return flags
}

type simulatorConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type appConfig struct {
	Thresholds    thresholds.Table     `yaml:"thresholds"`
	Monitor       monitor.Config       `yaml:"monitor"`
	Notifications recipients.Defaults  `yaml:"notifications"`
	Dispatcher    notifications.Config `yaml:"dispatcher"`
	Webhooks      webhook.Config       `yaml:"webhooks"`
	OPCUA         *opcua.Config        `yaml:"opcua,omitempty"`
	Simulator     simulatorConfig      `yaml:"simulator"`
}

func defaultConfig() *appConfig {
	return &appConfig{
		Thresholds:    thresholds.Default(),
		Monitor:       monitor.DefaultConfig(),
		Notifications: recipients.DefaultSettings(),
		Dispatcher:    notifications.DefaultConfig(),
		Simulator:     simulatorConfig{Interval: time.Second},
	}
}

// parseConfigFile overlays the yaml configuration on the defaults. Sections
// that are left out keep their default values.
func parseConfigFile(cfgFile io.Reader) (*appConfig, error) {
	cfg := defaultConfig()

	b, err := io.ReadAll(cfgFile)
	if err != nil {
		return nil, err
	}

	if err = yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}

	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = thresholds.Default()
	}

	cfg.Thresholds, err = cfg.Thresholds.Complete()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
