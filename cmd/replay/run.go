package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Settlers/internal/scenario"
	"Settlers/internal/world/dispatch"
)

var (
	runTimes      int
	runControlAll bool
)

var runCmd = &cobra.Command{
	Use:   "run [scenario.yml]",
	Short: "Replay a scenario script several times",
	Long: `Build a fresh world from the scenario, apply its script and print the
digest after every run. Exits with status 1 when the runs disagree.

Examples:
  replay run configs/scenarios/two_players.yml
  replay run configs/scenarios/two_players.yml --times 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		if runTimes < 1 {
			runTimes = 1
		}

		ctx := cmd.Context()
		var first []scenario.TickDigest
		ok := true
		for i := 0; i < runTimes; i++ {
			_, digests, err := s.Replay(ctx, cliLogger(), dispatch.WithControlAll(runControlAll))
			if err != nil {
				return err
			}
			final := uint64(0)
			if n := len(digests); n > 0 {
				final = digests[n-1].Digest
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %d: %d ticks, digest %016x\n", i+1, len(digests), final)

			if i == 0 {
				first = digests
				continue
			}
			if tick, same := firstDivergence(first, digests); !same {
				ok = false
				fmt.Fprintf(cmd.OutOrStdout(), "  diverged at tick %d\n", tick)
			}
		}
		if !ok {
			return errDigestMismatch
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVarP(&runTimes, "times", "n", 2, "number of runs")
	runCmd.Flags().BoolVar(&runControlAll, "control-all", false, "execute commands of players that have lost")
}

// firstDivergence 返回第一个校验和不同的 tick。
func firstDivergence(a, b []scenario.TickDigest) (uint64, bool) {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return a[i].Tick, false
		}
	}
	if len(a) != len(b) {
		return 0, false
	}
	return 0, true
}
