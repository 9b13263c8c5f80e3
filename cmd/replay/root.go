package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Settlers/modules/kit/logx"
)

var errDigestMismatch = errors.New("digest mismatch")

var (
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay command scripts and journals",
	Long: `Re-execute recorded commands on fresh worlds and compare world digests.

Identical command streams must always produce identical digests; any
difference means the command execution is not deterministic.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log dropped commands")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(journalCmd)
}

// cliLogger 默认静默，-v 时输出开发格式日志。
func cliLogger() logx.Logger {
	if !verbose {
		return logx.Nop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return logx.Nop()
	}
	return logx.NewZapLogger(l)
}
