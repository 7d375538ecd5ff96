package cmd

import (
	"fmt"
	"os"

	"github.com/solthron/autopilot/internal"
	"github.com/spf13/cobra"
)

var replayLive bool

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a scripted session against the engine",
	Long: `Replay a YAML interaction script against a simulated page and print the
engine's behavior as a trace.

Replay runs on a manual clock: wait steps advance simulated time instantly,
so debounce windows, offer delays and timeouts all resolve deterministically.
By default gateway calls are served by a canned stand-in; pass --live to hit
the real enhancement API instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := internal.LoadScript(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var gateway internal.Gateway
		if replayLive {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			gateway = newGateway(store)
		} else {
			gateway = &internal.FakeGateway{}
		}

		view := internal.NewConsoleView(os.Stdout)
		runner := internal.NewScriptRunner(cfg, gateway, view)
		engine, err := runner.Run(script)
		if err != nil {
			return err
		}

		if sess := engine.Tracker().Session(); sess != nil {
			fmt.Println()
			internal.PrintInfo(fmt.Sprintf("session %s: %d inputs, %d interventions",
				sess.SessionID, len(sess.Inputs), sess.InterventionCount))
		}
		internal.PrintSuccess("replay complete")
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&replayLive, "live", false, "Use the real enhancement API instead of canned replies")
	rootCmd.AddCommand(replayCmd)
}
