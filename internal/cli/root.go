// Package cli implements the lifeclock command line client.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lifeclock/internal/cli/appstate"
	"lifeclock/internal/cli/tokenstore"
	"lifeclock/internal/client"
	"lifeclock/internal/countdown"
)

const (
	defaultServer = "http://localhost:8080"
	envServer     = "LIFECLOCK_SERVER"
)

// RootOptions holds the persistent flags shared by all commands.
type RootOptions struct {
	Server string
	Lang   string

	state    *appstate.State
	messages *countdown.Messages
}

// Deps are the collaborators commands reach outside the process through.
type Deps struct {
	Tokens    tokenstore.Store
	NewClient func(server string, opts ...client.Option) *client.Client
	Logger    *slog.Logger
	// InPlace rewrites the countdown line instead of appending one per tick.
	InPlace bool
}

// NewRootCommandWith creates the root command. A nil NewClient or Logger
// falls back to the HTTP client and a discarding logger.
func NewRootCommandWith(deps Deps) *cobra.Command {
	if deps.NewClient == nil {
		deps.NewClient = client.New
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:   "lifeclock",
		Short: "Count down the statistically remaining lifetime",
		Long: `lifeclock shows how much time is statistically left for a person,
based on the life expectancy tables served by a lifeclock server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Server = strings.TrimRight(strings.TrimSpace(opts.Server), "/")
			if opts.Server == "" {
				return fmt.Errorf("--server must not be empty")
			}
			messages, err := countdown.NewMessages(opts.Lang)
			if err != nil {
				return err
			}
			opts.messages = messages

			opts.state = appstate.FromContext(cmd.Context())
			opts.state.Reset()
			cmd.SetContext(appstate.WithState(cmd.Context(), opts.state))
			return nil
		},
	}

	server := os.Getenv(envServer)
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVar(&opts.Server, "server", server, "lifeclock server URL (env "+envServer+")")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", countdown.DefaultLanguage,
		"display language ("+strings.Join(countdown.SupportedLanguages(), "|")+")")

	cmd.AddCommand(NewLoginCommand(opts, deps))
	cmd.AddCommand(NewLogoutCommand(opts, deps))
	cmd.AddCommand(NewCountdownCommand(opts, deps))
	cmd.AddCommand(NewPersonsCommand(opts, deps))

	return cmd
}

// authedClient returns a client carrying the stored token for the server.
func authedClient(opts *RootOptions, deps Deps) (*client.Client, error) {
	token, err := deps.Tokens.Get(opts.Server)
	if err != nil {
		return nil, err
	}
	return deps.NewClient(opts.Server, client.WithToken(token)), nil
}
