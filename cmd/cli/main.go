package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jakechorley/volunteer-connect/cmd/cli/commands"
	"github.com/jakechorley/volunteer-connect/internal/config"
	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/services"
	"github.com/jakechorley/volunteer-connect/pkg/session"
	"github.com/jakechorley/volunteer-connect/pkg/utils/logging"
)

var (
	env     string
	verbose bool

	app         = &commands.AppContext{}
	redisClient *redis.Client
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vc",
		Short: "Volunteer Connect CLI - Find and organize volunteering events",
		Long: `A CLI client for Volunteer Connect: log in, browse and register for events,
create events as an organizer, and manage your profile.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "local", "Environment (selects vc_config.<env>.yaml and the session file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show info logs on the console")

	// Add all commands
	rootCmd.AddCommand(commands.LoginCmd(app))
	rootCmd.AddCommand(commands.LogoutCmd(app))
	rootCmd.AddCommand(commands.WhoamiCmd(app))
	rootCmd.AddCommand(commands.SignupCmd(app))
	rootCmd.AddCommand(commands.EventsCmd(app))
	rootCmd.AddCommand(commands.EventCmd(app))
	rootCmd.AddCommand(commands.RegisterCmd(app))
	rootCmd.AddCommand(commands.CreateEventCmd(app))
	rootCmd.AddCommand(commands.OrganizationsCmd(app))
	rootCmd.AddCommand(commands.ProfileCmd(app))
	rootCmd.AddCommand(commands.EditProfileCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up config, logger, the session store and the API client
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.In = bufio.NewReader(os.Stdin)
	app.Out = os.Stdout
	app.Terminal = term.IsTerminal(int(os.Stdin.Fd()))

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(logging.Options{Env: env, Dir: app.Cfg.LogDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("api", app.Cfg.APIBaseURL),
		zap.String("session_backend", app.Cfg.Session.Backend))

	// Initialize session store
	kv, broker, err := openSessionBackend(app.Cfg)
	if err != nil {
		return fmt.Errorf("failed to open session backend: %w", err)
	}
	app.Store = session.NewStore(kv, broker, app.Logger)
	app.Logger.Debug("Session store initialized")

	// Initialize API client; it reads the token from the store on every request
	app.Client = apiclient.NewClient(apiclient.Options{
		BaseURL: app.Cfg.APIBaseURL,
		Timeout: app.Cfg.RequestTimeout,
	}, apiclient.NewStoreTokenSource(app.Ctx, app.Store), app.Logger)
	app.Logger.Debug("API client initialized")

	app.Events = services.NewEventBoard(app.Client, app.Store, app.Logger)
	app.Profile = services.NewProfileEditor(app.Client, app.Store, app.Logger)
	app.Notices = &services.NoticeBoard{}

	return nil
}

func openSessionBackend(cfg *config.Config) (session.KV, session.Broker, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		app.Logger.Warn("Using in-memory session: it is lost when the process exits")
		return session.NewMemoryKV(), session.NewLocalBroker(), nil

	case config.BackendRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		if err := redisClient.Ping(app.Ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Session.Redis.Addr, err)
		}

		hashKey := session.HashKey(cfg.Session.Redis.Prefix, env)
		broker := session.NewRedisBroker(redisClient, session.ChannelName(hashKey), app.Logger)
		app.Listener = broker
		app.Logger.Info("Using shared redis session", zap.String("key", hashKey))
		return session.NewRedisKV(redisClient, hashKey), broker, nil

	default:
		path := cfg.Session.Path
		if path == "" {
			var err error
			if path, err = session.DefaultFilePath(env); err != nil {
				return nil, nil, err
			}
		}
		app.Logger.Debug("Using session file", zap.String("path", path))
		return session.NewFileKV(path), session.NewLocalBroker(), nil
	}
}

func closeApp() {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}
