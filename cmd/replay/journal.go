package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Settlers/internal/scenario"
	"Settlers/internal/shared/serverconfig"
	"Settlers/internal/world/infra/persistence"
)

var (
	journalConfig   string
	journalScenario string
)

var journalCmd = &cobra.Command{
	Use:   "journal [session-id]",
	Short: "Replay a persisted session journal",
	Long: `Load the journal of a session from the configured backend, re-apply it on
the session's scenario and verify every recorded digest.

Examples:
  replay journal 550e8400-e29b-41d4-a716-446655440000
  replay journal s-1 --config configs/conf.yml --scenario configs/scenarios/two_players.yml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, conf, err := serverconfig.Load(journalConfig)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path := journalScenario
		if path == "" {
			path = conf.Session.Scenario
		}
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		repo, closeRepo, err := persistence.OpenJournal(ctx, conf, nil)
		if err != nil {
			return err
		}
		defer func() {
			_ = closeRepo(ctx)
		}()

		records, err := repo.Load(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load journal: %w", err)
		}
		w, mismatch, err := s.ReplayRecords(ctx, cliLogger(), records)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "session %s: %d ticks (%s backend)\n", args[0], len(records), conf.Journal.Backend)
		fmt.Fprintf(out, "digest %016x\n", w.Digest())
		if mismatch != 0 {
			fmt.Fprintf(out, "first mismatch at tick %d\n", mismatch)
			return errDigestMismatch
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().StringVarP(&journalConfig, "config", "c", "", "config file")
	journalCmd.Flags().StringVar(&journalScenario, "scenario", "", "scenario file, defaults to session.scenario")
}
