package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitwars/communication"
	"bitwars/communication/client"
	"bitwars/communication/server"
	"bitwars/config"
	"bitwars/logger"
	"bitwars/metrics"
	"bitwars/player"
	"bitwars/strategy"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	envPath := flag.String("env", ".env", "Path to a dotenv file, ignored when missing")
	url := flag.String("url", "", "Game server base URL (overrides config)")
	transport := flag.String("transport", "", "Snapshot transport, http or ws (overrides config)")
	goroutines := flag.Int("goroutines", 0, "Number of goroutines planning owned bases (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	serve := flag.String("serve", "", "Run the in-memory reference server on this address instead of playing")
	flag.Parse()

	err := config.LoadDotEnv(*envPath)
	var cfg *config.Config
	if err == nil {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if *url != "" {
		cfg.ServerURL = *url
	}
	if *transport != "" {
		cfg.Transport = *transport
	}
	if *goroutines > 0 {
		cfg.Goroutines = *goroutines
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve != "" {
		if err := runServer(ctx, *serve); err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
		return
	}

	if err := runAgent(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Agent failed")
	}
}

func runAgent(ctx context.Context, cfg *config.Config) error {
	var comm communication.Communicator
	switch cfg.Transport {
	case "ws":
		ws, err := client.DialWS(ctx, cfg.ServerURL)
		if err != nil {
			return err
		}
		defer ws.Close()
		comm = ws
	default:
		comm = client.NewHTTPCommunicator(cfg.ServerURL)
	}

	options := []strategy.Option{
		strategy.WithGoroutines(cfg.Goroutines),
		strategy.WithNeutralOverride(cfg.NeutralOverride),
	}
	if cfg.MetricsDir != "" {
		options = append(options, strategy.WithMetrics())
	}
	strategist := strategy.NewStrategist(options...)

	p := player.NewPlayer(comm, strategist,
		player.WithPollInterval(cfg.PollInterval),
		player.WithMaxBackoff(cfg.MaxBackoff))

	log.Info().Msgf("Playing on %s over %s with %d goroutines", cfg.ServerURL, cfg.Transport, cfg.Goroutines)
	start := time.Now()
	err := p.Run(ctx)
	end := time.Now()
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("Received shutdown signal")
		err = nil
	}

	if cfg.MetricsDir != "" {
		if werr := writeMetrics(cfg, p.Records(), start, end); werr != nil {
			log.Error().Err(werr).Msg("Failed to write metrics")
		}
	}
	return err
}

func writeMetrics(cfg *config.Config, records []metrics.TickMetric, start, end time.Time) error {
	w, err := metrics.NewWriter(cfg.MetricsDir)
	if err != nil {
		return err
	}
	agent := metrics.AgentConfig{
		ServerURL:       cfg.ServerURL,
		Transport:       cfg.Transport,
		Goroutines:      cfg.Goroutines,
		NeutralOverride: cfg.NeutralOverride,
	}
	if err := w.WriteSetup(start, end, agent, len(records)); err != nil {
		return err
	}
	if err := w.WriteTickRecords(records); err != nil {
		return err
	}
	log.Info().Msgf("Wrote %d tick records to %s", len(records), w.Dir())
	return nil
}

// runServer hosts the reference server and logs every batch it receives.
func runServer(ctx context.Context, addr string) error {
	sc := server.NewServerCommunicator()
	srv := &http.Server{Addr: addr, Handler: sc.Handler()}

	go func() {
		for {
			batch, err := sc.ReceiveActions(ctx)
			if err != nil {
				return
			}
			log.Info().Msgf("Player %d tick %d: %d actions", batch.Player, batch.Tick, len(batch.Actions))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("Serving on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
