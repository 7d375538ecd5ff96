package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/solthron/autopilot/internal"
	"github.com/spf13/cobra"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
)

var detectCmd = &cobra.Command{
	Use:   "detect <url>",
	Short: "Identify the chat platform behind a URL",
	Long: `Detect which supported chat platform a URL belongs to, and the
conversation session identifier its path carries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}

		platform := internal.DetectPlatform(u.Hostname(), u.Path)
		fmt.Printf("%s %s\n", labelStyle.Render("platform:"), valueStyle.Render(string(platform)))
		if platform == internal.PlatformUnknown {
			return nil
		}

		id := internal.SessionID(platform, u.Path, time.Now())
		fmt.Printf("%s %s\n", labelStyle.Render("session: "), valueStyle.Render(id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
