package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifeclock/internal/cli/appstate"
	"lifeclock/internal/client"
)

type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

func NewLoginCommand(rootOpts *RootOptions, deps Deps) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "login",
		Short:         "Sign in and remember the token",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, deps, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runLogin(opts *LoginOptions, deps Deps, cmd *cobra.Command) error {
	ctx := cmd.Context()
	c := deps.NewClient(opts.Server)

	opts.state.SetLoading(true)
	token, err := c.Login(ctx, opts.Email, opts.Password)
	opts.state.SetLoading(false)
	if err != nil {
		opts.state.AddError(err.Error())
		return fmt.Errorf("login: %w", err)
	}
	if err := deps.Tokens.Set(opts.Server, token.Token); err != nil {
		return err
	}

	me, err := deps.NewClient(opts.Server, client.WithToken(token.Token)).Me(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	opts.state.SetUser(&appstate.User{ID: me.ID, Email: me.Email, Username: me.Username})
	deps.Logger.InfoContext(ctx, "logged in", "server", opts.Server, "user_id", me.ID)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s <%s>\n", me.Username, me.Email)
	return nil
}
