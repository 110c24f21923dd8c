// internal/cli/commands.go

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"w3intel/internal/domain/community"
	"w3intel/internal/service/insight"
)

func newQueryCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "query [question...]",
		Short:   "Answer a natural-language question with a chart",
		Example: "  w3ctl query what is trending\n  w3ctl query -o json community sentiment",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := o.store(cmd)
			if err != nil {
				return err
			}

			payload := o.dispatcher(cmd, store).Generate(strings.Join(args, " "))
			return o.render(cmd.OutOrStdout(), payload)
		},
	}
}

func newTopicsCmd(o *rootOptions) *cobra.Command {
	var timeframe string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List trending topics inside a time frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf := community.TimeFrame(timeframe)
			if !tf.Valid() {
				return fmt.Errorf("unsupported time frame %q (want 24h, week or month)", timeframe)
			}

			store, err := o.store(cmd)
			if err != nil {
				return err
			}

			return o.render(cmd.OutOrStdout(), store.TopicsByTimeFrame(tf))
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", string(community.TimeFrameDay), "time frame: 24h|week|month")
	return cmd
}

func newTopicCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topic <id>",
		Short: "Show a topic with the users discussing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := o.store(cmd)
			if err != nil {
				return err
			}

			detail, ok := insight.NewExplorer(store).TopicDetail(args[0])
			if !ok {
				return fmt.Errorf("topic %q: %w", args[0], community.ErrNotFound)
			}
			return o.render(cmd.OutOrStdout(), detail)
		},
	}
}

func newUserCmd(o *rootOptions) *cobra.Command {
	var engagement bool

	cmd := &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user profile, or their engagement summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := o.store(cmd)
			if err != nil {
				return err
			}
			explorer := insight.NewExplorer(store)

			if engagement {
				summary, ok := explorer.Engagement(args[0])
				if !ok {
					return fmt.Errorf("user %q: %w", args[0], community.ErrNotFound)
				}
				return o.render(cmd.OutOrStdout(), summary)
			}

			profile, ok := explorer.UserProfile(args[0])
			if !ok {
				return fmt.Errorf("user %q: %w", args[0], community.ErrNotFound)
			}
			return o.render(cmd.OutOrStdout(), profile)
		},
	}

	cmd.Flags().BoolVarP(&engagement, "engagement", "e", false, "show the engagement summary instead of the profile")
	return cmd
}
