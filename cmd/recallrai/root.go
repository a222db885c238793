package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	recallrai "github.com/recallrai/sdk-go"
	"github.com/recallrai/sdk-go/internal/logger"
)

const defaultCallTimeout = 30 * time.Second

// env carries the resolved settings to every sub-command.
type env struct {
	v *viper.Viper
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	e := &env{v: viper.New()}
	e.v.SetEnvPrefix(recallrai.EnvPrefix)
	e.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	e.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "recallrai",
		Short:         "recallrai manages users, sessions and memories of a RecallrAI project",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("api-key", "", "API key (rai_...); env RECALLRAI_API_KEY")
	pf.String("project-id", "", "Project ID; env RECALLRAI_PROJECT_ID")
	pf.String("base-url", recallrai.DefaultBaseURL, "Service base URL; env RECALLRAI_BASE_URL")
	pf.Duration("timeout", recallrai.DefaultTimeout, "HTTP timeout per request")
	pf.BoolP("debug", "d", false, "Enable debug logging including HTTP dumps")
	pf.String("config", "", "Optional config file (yaml, toml or json)")
	pf.String("env-file", ".env", "Optional dotenv file loaded before reading the environment")
	pf.String("log-format", "console", "Log format on stderr: console or json")
	for _, name := range []string{"api-key", "project-id", "base-url", "timeout", "debug", "config", "env-file", "log-format"} {
		_ = e.v.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(newUsersCmd(e))
	rootCmd.AddCommand(newSessionsCmd(e))
	rootCmd.AddCommand(newConflictsCmd(e))
	rootCmd.AddCommand(newMemoriesCmd(e))
	rootCmd.AddCommand(newMessagesCmd(e))
	rootCmd.AddCommand(newAuthCmd(e))

	return rootCmd
}

// load reads the dotenv and config files and configures logging.
func (e *env) load(cmd *cobra.Command) error {
	if path := e.v.GetString("env-file"); path != "" {
		// Existing variables win over the file.
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if path := e.v.GetString("config"); path != "" {
		e.v.SetConfigFile(path)
		if err := e.v.ReadInConfig(); err != nil {
			return err
		}
	}

	level := "info"
	if e.v.GetBool("debug") {
		level = "debug"
	}
	switch format := e.v.GetString("log-format"); format {
	case "json":
		log.Logger = logger.New(cmd.ErrOrStderr(), "recallrai-cli", level)
	case "", "console":
		log.Logger = logger.NewConsole(cmd.ErrOrStderr(), level)
	default:
		return fmt.Errorf("unknown --log-format %q: want console or json", format)
	}
	log.Debug().Str("base_url", e.v.GetString("base-url")).Msg("debug logging enabled")
	return nil
}

// client builds a Client from the resolved settings.
func (e *env) client() (*recallrai.Client, error) {
	return recallrai.New(e.v.GetString("api-key"), e.v.GetString("project-id"),
		recallrai.WithBaseURL(e.v.GetString("base-url")),
		recallrai.WithHTTPTimeout(e.v.GetDuration("timeout")),
		recallrai.WithDebugLogging(e.v.GetBool("debug")),
		recallrai.WithLogger(log.Logger),
	)
}

// run opens a client, calls fn with a bounded context and closes the client.
func (e *env) run(cmd *cobra.Command, fn func(ctx context.Context, c *recallrai.Client) error) error {
	c, err := e.client()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultCallTimeout)
	defer cancel()

	start := time.Now()
	err = fn(ctx, c)
	log.Debug().Str("command", cmd.CommandPath()).Dur("elapsed", time.Since(start)).Err(err).Msg("command finished")
	return err
}
