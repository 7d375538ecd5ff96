package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/solthron/autopilot/internal"
	"github.com/spf13/cobra"
)

var (
	enhanceMode   string
	enhanceTone   string
	enhanceLength string
	enhanceSave   bool
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <text>",
	Short: "Enhance a prompt from the terminal",
	Long: `Send text through the enhancement service and print the improved prompt.

The tone defaults to auto-detection from the text's vocabulary; pass --tone
to force one. Modes other than the default enhancement (reframe, convert,
persona_generator, image_prompt, assistant) consume account credits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.Join(args, " ")

		tone := enhanceTone
		if tone == "" || tone == "auto" {
			tone = internal.DetectTone(topic)
			internal.PrintInfo(fmt.Sprintf("detected tone: %s", tone))
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		gateway := newGateway(store)

		ctx := context.Background()
		auth := internal.NewAuth(store, gateway)
		if cost := internal.FeatureCredits(enhanceMode); cost > 0 {
			if !auth.LoggedIn(ctx) {
				return fmt.Errorf("mode %q costs %d credits, run 'autopilot login' first", enhanceMode, cost)
			}
			remaining, err := auth.Deduct(ctx, enhanceMode)
			if err != nil {
				return err
			}
			internal.PrintInfo(fmt.Sprintf("%d credits remaining", remaining))
		}

		reply, err := gateway.Enhance(ctx, internal.EnhanceRequest{
			Topic:  topic,
			Mode:   enhanceMode,
			Tone:   tone,
			Length: enhanceLength,
		})
		if err != nil {
			return fmt.Errorf("%s", internal.UserMessage(err))
		}

		fmt.Println(reply.Prompt)

		if enhanceSave {
			item, err := internal.NewArtifacts(store, internal.SystemClock{}).SavePrompt(reply.Prompt)
			if err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("saved as %s", item.ID))
		}
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <text>",
	Short: "Explain a piece of text",
	Long:  `Ask the enhancement service to explain text: its meaning, as a story, or as if to a five-year-old.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := internal.ExplainMeaning
		switch explainStyle {
		case "meaning":
		case "story":
			kind = internal.ExplainStory
		case "eli5":
			kind = internal.ExplainELI5
		default:
			return fmt.Errorf("unknown style %q (want meaning, story or eli5)", explainStyle)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		reply, err := newGateway(store).Explain(context.Background(), kind, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("%s", internal.UserMessage(err))
		}
		fmt.Println(reply.Explanation)
		return nil
	},
}

var explainStyle string

func init() {
	enhanceCmd.Flags().StringVar(&enhanceMode, "mode", "", "Enhancement mode (reframe, convert, persona_generator, image_prompt, assistant)")
	enhanceCmd.Flags().StringVar(&enhanceTone, "tone", "auto", "Tone (auto, professional, casual, technical, academic, business, creative)")
	enhanceCmd.Flags().StringVar(&enhanceLength, "length", "balanced", "Target length (short, balanced, detailed)")
	enhanceCmd.Flags().BoolVar(&enhanceSave, "save", false, "Save the result to the prompt library")
	explainCmd.Flags().StringVar(&explainStyle, "style", "meaning", "Explanation style (meaning, story, eli5)")
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(explainCmd)
}
