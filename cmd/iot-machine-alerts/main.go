package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/alerts"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/cooldown"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/monitor"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/notifications"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/recipients"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/samples"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/simulator"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/messaging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/router"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/sources/kafka"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/sources/opcua"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/transports/email"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/transports/sse"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/transports/webhook"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/transports/websocket"
	"github.com/diwise/iot-machine-alerts/internal/pkg/presentation/api"
	"github.com/diwise/iot-machine-alerts/internal/pkg/presentation/api/auth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const serviceName string = "iot-machine-alerts"

func main() {
	serviceVersion := version()

	ctx, logger := logging.NewLogger(context.Background(), serviceName, serviceVersion)
	logger.Info().Msg("starting up ...")

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	flags := parseExternalConfig(ctx, defaultFlags())

	cfg, err := loadConfig(ctx, flags[configurationFile])
	exitIf(err, logger, "could not load configuration")

	policies, err := os.Open(flags[policiesFile])
	exitIf(err, logger, "unable to open opa policy file")

	machines, err := os.Open(flags[machinesFile])
	exitIf(err, logger, "could not open machines file")

	operators, err := os.Open(flags[operatorsFile])
	exitIf(err, logger, "could not open operators file")

	svc, err := initialize(ctx, flags, cfg, policies, machines, operators)
	exitIf(err, logger, "failed to initialize service")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = svc.run(ctx)
	exitIf(err, logger, "service stopped unexpectedly")

	logger.Info().Msg("shut down complete")
}

func loadConfig(ctx context.Context, path string) (*appConfig, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log := logging.GetFromContext(ctx)
		log.Warn().Str("path", path).Msg("no configuration file found, using defaults")
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseConfigFile(f)
}

type service struct {
	public  *http.Server
	control *http.Server

	hub        *websocket.Hub
	events     *sse.Events
	gate       *cooldown.Gate
	dispatcher notifications.Dispatcher
	monitor    monitor.Monitor

	// background metric sources, each runs until ctx is done
	sources []func(ctx context.Context)
	closers []func() error
}

func initialize(ctx context.Context, flags flagMap, cfg *appConfig, policies, machinesFile, operatorsFile io.ReadCloser) (*service, error) {
	defer policies.Close()
	defer machinesFile.Close()
	defer operatorsFile.Close()

	log := logging.GetFromContext(ctx)
	dev := flags[devMode] == "true"

	secret := flags[jwtSecret]
	if secret == "" {
		if !dev {
			return nil, errors.New("JWT_SECRET must be set unless running in dev mode")
		}
		secret = "dev-secret"
		log.Warn().Msg("using a well known jwt secret, do not run like this in production")
	}

	connect := newConnector(ctx, dev)

	alertRepo, err := database.NewAlertRepository(connect)
	if err != nil {
		return nil, fmt.Errorf("could not create alert repository: %w", err)
	}

	operatorRepo, err := database.NewOperatorRepository(connect)
	if err != nil {
		return nil, fmt.Errorf("could not create operator repository: %w", err)
	}

	machineRepo, err := database.NewMachineRepository(connect)
	if err != nil {
		return nil, fmt.Errorf("could not create machine repository: %w", err)
	}

	if err = database.SeedMachines(ctx, machineRepo, machinesFile); err != nil {
		return nil, fmt.Errorf("failed to seed machines: %w", err)
	}

	if err = database.SeedOperators(ctx, operatorRepo, operatorsFile); err != nil {
		return nil, fmt.Errorf("failed to seed operators: %w", err)
	}

	svc := &service{
		hub:    websocket.NewHub(),
		events: sse.New(),
		gate:   cooldown.New(),
	}

	publishers := []messaging.Publisher{svc.hub, svc.events}
	svc.closers = append(svc.closers, func() error { svc.events.Shutdown(); return nil })

	if flags[rabbitURL] != "" {
		rmq, err := messaging.NewRabbitMQPublisher(ctx, messaging.RabbitMQConfig{
			URL:      flags[rabbitURL],
			Exchange: flags[rabbitExchange],
		})
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, rmq)
		svc.closers = append(svc.closers, rmq.Close)
	}

	if len(cfg.Webhooks.Notifications) > 0 {
		wh, err := webhook.New(&cfg.Webhooks)
		if err != nil {
			return nil, fmt.Errorf("failed to create webhook publisher: %w", err)
		}
		publishers = append(publishers, wh)
	}

	alertSvc := alerts.New(alertRepo, messaging.NewFanout(publishers...))
	resolver := recipients.New(operatorRepo, cfg.Notifications)

	svc.dispatcher = notifications.New(cfg.Dispatcher, resolver, newTransport(ctx, flags, dev), alertSvc)

	store := samples.NewStore()
	svc.monitor = monitor.New(cfg.Monitor, cfg.Thresholds, machineRepo, store, svc.gate, alertSvc, svc.dispatcher)

	authenticator, err := auth.NewAuthenticator(ctx, auth.NewHS256(secret), policies)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	r := router.New(ctx, serviceName)
	api.RegisterHandlers(ctx, r, authenticator, api.Services{
		Alerts:     alertSvc,
		Machines:   machineRepo,
		Samples:    store,
		Recipients: resolver,
		Dispatcher: svc.dispatcher,
		Live:       svc.hub.ServeWS,
		Events:     svc.events,
	})

	svc.public = &http.Server{
		Addr:              net.JoinHostPort(flags[listenAddress], flags[servicePort]),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	svc.control = &http.Server{
		Addr:              net.JoinHostPort(flags[listenAddress], flags[controlPort]),
		Handler:           controlRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if dev {
		sim := simulator.New(machineRepo, store, cfg.Simulator.Interval, time.Now().UnixNano())
		svc.sources = append(svc.sources, sim.Run)
	}

	if flags[kafkaBrokers] != "" {
		consumer, err := kafka.NewConsumer(kafka.Config{
			Brokers: strings.Split(flags[kafkaBrokers], ","),
			Topic:   flags[kafkaTopic],
			GroupID: flags[kafkaGroup],
		}, store)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
		}

		svc.sources = append(svc.sources, func(ctx context.Context) {
			if err := consumer.Run(ctx); err != nil {
				logger := logging.GetFromContext(ctx)
				logger.Error().Err(err).Msg("kafka consumer stopped")
			}
		})
	}

	if cfg.OPCUA != nil && cfg.OPCUA.Endpoint != "" {
		collector, err := opcua.NewCollector(*cfg.OPCUA, store)
		if err != nil {
			return nil, fmt.Errorf("invalid opcua configuration: %w", err)
		}

		svc.sources = append(svc.sources, func(ctx context.Context) {
			logger := logging.GetFromContext(ctx)
			if err := collector.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("failed to start opcua collector")
				return
			}
			<-ctx.Done()
			if err := collector.Stop(); err != nil {
				logger.Warn().Err(err).Msg("opcua collector did not stop cleanly")
			}
		})
	}

	return svc, nil
}

func newConnector(ctx context.Context, dev bool) database.ConnectorFunc {
	if dev {
		return database.NewSQLiteConnector(ctx)
	}
	return database.NewPostgreSQLConnector(ctx, database.LoadConfigFromEnv(ctx))
}

func newTransport(ctx context.Context, flags flagMap, dev bool) notifications.Transport {
	port, _ := strconv.Atoi(flags[smtpPort])

	cfg := email.Config{
		Host:     flags[smtpHost],
		Port:     port,
		Username: flags[smtpUser],
		Password: flags[smtpPassword],
		From:     flags[smtpFrom],
	}

	if dev || !cfg.Configured() {
		log := logging.GetFromContext(ctx)
		log.Warn().Msg("smtp is not configured, notifications will only be logged")
		return email.NewLogTransport()
	}

	return email.NewSMTPTransport(cfg)
}

func controlRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

// run starts all components and blocks until ctx is cancelled or one of the
// servers fails, then shuts everything down in reverse order.
func (s *service) run(ctx context.Context) error {
	log := logging.GetFromContext(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	background := func(f func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(ctx)
		}()
	}

	background(s.hub.Run)
	background(func(ctx context.Context) { s.gate.Run(ctx, time.Minute) })
	for _, src := range s.sources {
		background(src)
	}

	s.dispatcher.Start(ctx)
	s.monitor.Start(ctx)

	errs := make(chan error, 2)
	for _, srv := range []*http.Server{s.public, s.control} {
		go func(srv *http.Server) {
			log.Info().Str("addr", srv.Addr).Msg("starting to listen for connections")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}(srv)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errs:
		log.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, srv := range []*http.Server{s.public, s.control} {
		if e := srv.Shutdown(shutdownCtx); e != nil {
			log.Warn().Err(e).Str("addr", srv.Addr).Msg("http server shutdown failed")
		}
	}

	s.monitor.Stop()
	s.dispatcher.Stop()

	cancel()
	wg.Wait()

	for _, c := range s.closers {
		if e := c(); e != nil {
			log.Warn().Err(e).Msg("failed to close resource")
		}
	}

	return err
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	buildSettings := buildInfo.Settings
	infoMap := map[string]string{}
	for _, s := range buildSettings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Fatal().Err(err).Msg(msg)
	}
}
