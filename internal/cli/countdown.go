package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lifeclock/internal/client"
	"lifeclock/internal/countdown"
)

type CountdownOptions struct {
	*RootOptions
	Sex    string
	Birth  string
	Person string
}

func NewCountdownCommand(rootOpts *RootOptions, deps Deps) *cobra.Command {
	opts := &CountdownOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Show the remaining lifetime ticking down",
		Long: `Show the remaining lifetime ticking down once per second until
interrupted. Pass --sex and --birth for an ad-hoc query, or --person to count
down for one of your registered persons.`,
		Example: `  lifeclock countdown --sex female --birth 1990
  lifeclock countdown --person 3f0c...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCountdown(opts, deps, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Sex, "sex", "", "male or female")
	cmd.Flags().StringVar(&opts.Birth, "birth", "", "birth year or date (YYYY or YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Person, "person", "", "registered person ID (requires login)")
	cmd.MarkFlagsRequiredTogether("sex", "birth")
	cmd.MarkFlagsMutuallyExclusive("person", "sex")
	cmd.MarkFlagsMutuallyExclusive("person", "birth")
	cmd.MarkFlagsOneRequired("person", "sex")

	return cmd
}

func runCountdown(opts *CountdownOptions, deps Deps, cmd *cobra.Command) error {
	ctx := cmd.Context()

	fetch, prefix, err := seedFetcher(ctx, opts, deps)
	if err != nil {
		return err
	}

	display := countdown.NewTerminalDisplay(cmd.OutOrStdout(), opts.messages, deps.InPlace).WithPrefix(prefix)
	cd := countdown.New(display, countdown.WithLogger(deps.Logger))
	defer cd.Cancel()

	opts.state.SetLoading(true)
	err = cd.Mount(ctx, fetch)
	opts.state.SetLoading(false)
	if err != nil {
		opts.state.AddError(err.Error())
		// The failure text was already rendered.
		return nil
	}

	select {
	case <-ctx.Done():
	case <-cd.Done():
	}
	if deps.InPlace {
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func seedFetcher(ctx context.Context, opts *CountdownOptions, deps Deps) (countdown.SeedFetcher, string, error) {
	if opts.Person == "" {
		c := deps.NewClient(opts.Server)
		return func(ctx context.Context) (int64, error) {
			return c.RemainTime(ctx, opts.Sex, opts.Birth)
		}, "", nil
	}

	c, err := authedClient(opts.RootOptions, deps)
	if err != nil {
		return nil, "", fmt.Errorf("--person: %w", err)
	}
	persons, err := c.Persons(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list persons: %w", err)
	}
	p, ok := findPerson(persons, opts.Person)
	if !ok {
		return nil, "", fmt.Errorf("person %s not found", opts.Person)
	}
	return func(context.Context) (int64, error) {
		return p.RemainTime, nil
	}, p.Name + ": ", nil
}

func findPerson(persons []client.Person, id string) (client.Person, bool) {
	for _, p := range persons {
		if p.ID == id {
			return p, true
		}
	}
	return client.Person{}, false
}
