package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/solthron/autopilot/internal"
	"github.com/spf13/cobra"
)

// The three artifact commands share one shape: add, list, rm over a store
// bucket. Saving is always free of charge.

var notesCmd = makeArtifactCmd("notes", internal.BucketNotes, "note", "Manage saved notes")
var promptsCmd = makeArtifactCmd("prompts", internal.BucketPrompts, "prompt", "Manage saved prompts")
var personasCmd = makeArtifactCmd("personas", internal.BucketPersonas, "persona", "Manage saved personas")

func makeArtifactCmd(use, bucket, noun, short string) *cobra.Command {
	parent := &cobra.Command{
		Use:   use,
		Short: short,
	}

	parent.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: fmt.Sprintf("Save a %s", noun),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			artifacts := internal.NewArtifacts(store, internal.SystemClock{})
			text := strings.Join(args, " ")
			var item internal.SavedItem
			switch bucket {
			case internal.BucketNotes:
				item, err = artifacts.SaveNote(text)
			case internal.BucketPrompts:
				item, err = artifacts.SavePrompt(text)
			case internal.BucketPersonas:
				item, err = artifacts.SavePersona(text)
			}
			if err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("saved %s %s", noun, item.ID))
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List saved %ss", noun),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := internal.NewArtifacts(store, internal.SystemClock{}).List(bucket)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				internal.PrintInfo(fmt.Sprintf("no saved %ss", noun))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tTEXT")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, item.CreatedAt.Format("2006-01-02 15:04"), truncateText(item.Text, 60))
			}
			return w.Flush()
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: fmt.Sprintf("Delete a saved %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := internal.NewArtifacts(store, internal.SystemClock{}).Delete(bucket, args[0]); err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("deleted %s", args[0]))
			return nil
		},
	})

	return parent
}

// truncateText shortens text to at most max runes, ellipsized. Slicing by
// bytes could split a multi-byte rune.
func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(personasCmd)
}
