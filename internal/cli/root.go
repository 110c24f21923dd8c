// internal/cli/root.go

package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"w3intel/internal/adapter/storage"
	"w3intel/internal/domain/community"
	"w3intel/internal/service/insight"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

type rootOptions struct {
	output   string
	fixtures string
	verbose  bool

	now func() time.Time
	rng insight.RandSource
}

// Option configures the root command
type Option func(*rootOptions)

// WithClock fixes the clock used to age fixtures and label engagement days
func WithClock(now func() time.Time) Option {
	return func(o *rootOptions) {
		o.now = now
	}
}

// WithRand sets the random source used by the engagement chart
func WithRand(rng insight.RandSource) Option {
	return func(o *rootOptions) {
		o.rng = rng
	}
}

// NewRootCmd returns the root command for the w3ctl CLI
func NewRootCmd(opts ...Option) *cobra.Command {
	o := &rootOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	rootCmd := &cobra.Command{
		Use:           "w3ctl",
		Short:         "Query Web3 community intelligence from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch o.output {
			case OutputText, OutputJSON:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (want text or json)", o.output)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&o.output, "output", "o", OutputText, "output format: text|json")
	rootCmd.PersistentFlags().StringVar(&o.fixtures, "fixtures", "", "community fixture YAML file (default: embedded data)")
	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newQueryCmd(o))
	rootCmd.AddCommand(newTopicsCmd(o))
	rootCmd.AddCommand(newTopicCmd(o))
	rootCmd.AddCommand(newUserCmd(o))

	return rootCmd
}

// store loads the dataset selected by --fixtures
func (o *rootOptions) store(cmd *cobra.Command) (community.Store, error) {
	now := o.now()

	var (
		ds  community.Dataset
		err error
	)
	if o.fixtures != "" {
		ds, err = storage.LoadFixtureFile(o.fixtures, now)
	} else {
		ds, err = storage.DefaultFixtures(now)
	}
	if err != nil {
		return nil, err
	}

	log := o.logger(cmd)
	for _, problem := range ds.DanglingReferences() {
		log.WithField("problem", problem).Warn("Dangling reference in community data")
	}

	return storage.NewMemoryStore(ds, storage.WithClock(o.now)), nil
}

// logger writes to stderr so JSON output stays parseable
func (o *rootOptions) logger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if o.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func (o *rootOptions) dispatcher(cmd *cobra.Command, store community.Store) *insight.Dispatcher {
	opts := []insight.DispatcherOption{
		insight.WithNow(o.now),
		insight.WithLogger(o.logger(cmd)),
	}
	if o.rng != nil {
		opts = append(opts, insight.WithRand(o.rng))
	}
	return insight.NewDispatcher(store, opts...)
}
