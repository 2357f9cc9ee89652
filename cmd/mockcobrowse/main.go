package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/custom-agent-demo/agentui/internal/config"
	"github.com/custom-agent-demo/agentui/internal/logging"
	"github.com/custom-agent-demo/agentui/internal/mock"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath string
		host       string
		port       int
		scenario   string
		token      string
	)

	flagSet := pflag.NewFlagSet("mockcobrowse", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
	flagSet.StringVar(&host, "host", "", "listen host")
	flagSet.IntVar(&port, "port", 0, "listen port")
	flagSet.StringVar(&scenario, "scenario", "", "session script: "+strings.Join(mock.ScenarioNames(), ", "))
	flagSet.StringVar(&token, "token", "", "token agents must present (empty accepts any)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagSet.Changed("host") {
		cfg.Mock.Host = host
	}
	if flagSet.Changed("port") {
		cfg.Mock.Port = port
	}
	if flagSet.Changed("scenario") {
		cfg.Mock.Scenario = scenario
	}
	if flagSet.Changed("token") {
		cfg.Mock.Token = token
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	sc, err := mock.ParseScenario(cfg.Mock.Scenario)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore()
	server := mock.NewServer(ctx, store, mock.Options{
		Scenario:       sc,
		Tick:           cfg.Mock.Tick,
		Token:          cfg.Mock.Token,
		AllowedOrigins: cfg.Mock.AllowedOrigins,
		Logger:         logger,
	})

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	logger.Info("starting mock cobrowse service", zap.String("scenario", string(sc)))
	if err := mock.ListenAndServe(ctx, cfg.Mock.Host, cfg.Mock.Port, mux, logger); err != nil {
		return err
	}
	logger.Info("mock cobrowse service stopped", zap.Int("open_sessions", store.ActiveCount()))
	return nil
}
