package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifeclock/internal/cli/tokenstore"
	"lifeclock/internal/client"
)

func NewLogoutCommand(rootOpts *RootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Sign out and forget the token",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(rootOpts, deps, cmd)
		},
	}
}

// runLogout revokes the token server-side when possible. An already rejected
// token still clears local state.
func runLogout(opts *RootOptions, deps Deps, cmd *cobra.Command) error {
	ctx := cmd.Context()
	c, err := authedClient(opts, deps)
	switch {
	case errors.Is(err, tokenstore.ErrNoToken):
		opts.state.Reset()
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
		return nil
	case err != nil:
		return err
	}

	if err := c.Signout(ctx); err != nil && !client.IsUnauthorized(err) {
		return fmt.Errorf("logout: %w", err)
	}
	if err := deps.Tokens.Delete(opts.Server); err != nil {
		return err
	}
	opts.state.Reset()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
	return nil
}
