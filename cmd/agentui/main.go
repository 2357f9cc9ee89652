package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/custom-agent-demo/agentui/internal/app"
	"github.com/custom-agent-demo/agentui/internal/cobrowse"
	"github.com/custom-agent-demo/agentui/internal/config"
	"github.com/custom-agent-demo/agentui/internal/logging"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/gorilla/websocket"
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
		apiURL     string
		demoID     string
		token      string
		logFile    string
		logLevel   string
		list       bool
	)

	flagSet := pflag.NewFlagSet("agentui", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
	flagSet.StringVar(&apiURL, "api", "", "base URL of the cobrowse service")
	flagSet.StringVar(&demoID, "demo-id", "", "demo id of the session to join")
	flagSet.StringVar(&token, "token", "", "agent token for the cobrowse service")
	flagSet.StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "agentui.log"), "write JSON log records to this file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flagSet.BoolVar(&list, "list-sessions", false, "print the service's sessions and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagSet.Changed("api") {
		cfg.Agent.API = apiURL
	}
	if flagSet.Changed("demo-id") {
		cfg.Agent.DemoID = demoID
	}
	if flagSet.Changed("token") {
		cfg.Agent.Token = token
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	cfg.Log.OutputPaths = []string{logFile}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	api := cobrowse.NewAPI(cfg.Agent.API,
		cobrowse.WithLogger(logger),
		cobrowse.WithToken(cfg.Agent.Token),
		cobrowse.WithEventBuffer(cfg.Agent.EventBuffer),
		cobrowse.WithDialer(&websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.Agent.AttachTimeout,
		}),
		cobrowse.WithHTTPClient(&http.Client{Timeout: cfg.Agent.AttachTimeout}),
	)

	if list {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Agent.AttachTimeout)
		defer cancel()
		sessions, err := api.Sessions(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		printSessions(os.Stdout, sessions)
		return nil
	}

	surface := cobrowse.ConnectURL(api.Endpoint(), cfg.Agent.DemoID, cfg.Agent.Token)
	logger.Info("starting agent console",
		zap.String("api", api.Endpoint()),
		zap.String("demo", cfg.Agent.DemoID))

	m := app.New(app.Options{
		Surface:         surface,
		DemoID:          cfg.Agent.DemoID,
		Attach:          attachFunc(api),
		Lookup:          api.Session,
		RefreshInterval: cfg.Agent.RefreshInterval,
		StaleAfter:      cfg.Agent.StaleAfter,
		AttachTimeout:   cfg.Agent.AttachTimeout,
		EndedMessage:    cfg.Agent.EndedMessage,
		Logger:          logger,
	})

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func attachFunc(api *cobrowse.API) app.AttachFunc {
	return func(ctx context.Context, surface string) (app.Handle, error) {
		c, err := api.AttachContext(ctx, surface)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func printSessions(w io.Writer, sessions []*session.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "no sessions")
		return
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\tfull_device=%s\n", s.ID, s.State, s.FullDevice)
	}
}
