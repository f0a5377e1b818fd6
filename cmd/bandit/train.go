package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/logrusorgru/aurora"
	_ "github.com/samuelfneumann/gobandit/agent/bandit/greedy"
	_ "github.com/samuelfneumann/gobandit/agent/bandit/neuralegreedy"
	"github.com/samuelfneumann/gobandit/experiment"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Files that tracked data is saved to in the output directory
const (
	rewardFile = "reward.bin"
	regretFile = "regret.bin"
	lossFile   = "loss.bin"
)

func newTrainCommand() *cobra.Command {
	var (
		configFile string
		outDir     string
		seed       uint64
		every      int
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run the experiment described by a JSON configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := experiment.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("train: could not create output "+
					"directory: %w", err)
			}

			reward := tracker.NewReward(filepath.Join(outDir, rewardFile))
			regret := tracker.NewRegret(filepath.Join(outDir, regretFile))
			loss := tracker.NewLoss(filepath.Join(outDir, lossFile))
			progress := newStatus(cmd.ErrOrStderr(), c.MaxSteps, every)

			exp, err := c.CreateExp(seed, reward, regret, loss, progress)
			if err != nil {
				return err
			}
			defer exp.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			au := aurora.NewAurora(!noColor)
			progress.Start()
			err = exp.Run(ctx)
			progress.Stop()
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(cmd.ErrOrStderr(),
					au.Yellow("interrupted, saving partial results"))
			} else if err != nil {
				return err
			}

			if err := exp.Save(); err != nil {
				return err
			}

			summarize(cmd, au, exp, reward, regret, loss)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "",
		"JSON experiment configuration")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".",
		"Directory to save tracked data to")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the experiment")
	cmd.Flags().IntVar(&every, "every", 100,
		"Number of steps between progress updates")
	cmd.Flags().BoolVar(&noColor, "no-color", false,
		"Disable coloured output")
	cmd.MarkFlagRequired("config")

	return cmd
}

// summarize prints a summary of a finished experiment
func summarize(cmd *cobra.Command, au aurora.Aurora, exp experiment.Experiment,
	reward *tracker.Reward, regret *tracker.Regret, loss *tracker.Loss) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, au.Bold("Summary"))
	fmt.Fprintf(out, "%v\t%v\n", au.Cyan("steps"), len(reward.Data()))
	fmt.Fprintf(out, "%v\t%v\n", au.Cyan("train steps"),
		exp.Agent().TrainStep())

	if rewards := tail(reward.Data()); len(rewards) > 0 {
		fmt.Fprintf(out, "%v\t%.4f\n", au.Cyan("final reward"),
			stat.Mean(rewards, nil))
	}
	if len(regret.Data()) > 0 {
		fmt.Fprintf(out, "%v\t%.4f\n", au.Cyan("cumulative regret"),
			regret.Cumulative())
	}
	if losses := tail(loss.Data()); len(losses) > 0 {
		fmt.Fprintf(out, "%v\t%.4f\n", au.Cyan("final loss"),
			floats.Sum(losses)/float64(len(losses)))
	}
}

// tail returns the last tenth of data, or all of data if it has fewer
// than ten elements
func tail(data []float64) []float64 {
	n := len(data) / 10
	if n == 0 {
		return data
	}
	return data[len(data)-n:]
}
