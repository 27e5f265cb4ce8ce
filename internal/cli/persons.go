package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifeclock/internal/countdown"
)

func NewPersonsCommand(rootOpts *RootOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:           "persons",
		Short:         "List registered persons with their remaining lifetime",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersons(rootOpts, deps, cmd)
		},
	}
}

func runPersons(opts *RootOptions, deps Deps, cmd *cobra.Command) error {
	ctx := cmd.Context()
	c, err := authedClient(opts, deps)
	if err != nil {
		return err
	}

	opts.state.SetLoading(true)
	persons, err := c.Persons(ctx)
	opts.state.SetLoading(false)
	if err != nil {
		opts.state.AddError(err.Error())
		return fmt.Errorf("list persons: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(persons) == 0 {
		_, _ = fmt.Fprintln(out, opts.messages.Text(countdown.MsgPersonsNone))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range persons {
		name := p.Name
		if p.IsAccountUser {
			name += " " + opts.messages.Text(countdown.MsgAccountMarker)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, name, p.BirthDate, opts.messages.Line(stateOf(p.RemainTime)))
	}
	return tw.Flush()
}

func stateOf(remain int64) countdown.State {
	if remain < 0 {
		return countdown.State{Phase: countdown.PhaseExceeded, Remaining: remain}
	}
	return countdown.State{Phase: countdown.PhaseCounting, Breakdown: countdown.Decompose(remain), Remaining: remain}
}
