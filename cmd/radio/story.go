package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/cliff-radio/internal/types"
)

// storyCmd prints the scene graph
var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Print the story scene graph",
	Long: `Print every scene with its choices and their targets.

Example:
  radio story
  radio story --config ./config.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := loadContent()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range content.SceneIDs() {
			scene, _ := content.GetScene(id)

			label := cyan(id)
			if types.StoryState(id).IsEnding() {
				label += " " + yellow("[ending]")
			}
			if scene.Title != "" {
				label += " " + gray(scene.Title)
			}
			fmt.Fprintln(out, label)

			for i, choice := range scene.Choices {
				target := choice.NextState
				if _, exists := content.GetScene(target); !exists {
					target = red(target + " (missing)")
				}
				fmt.Fprintf(out, "  %d. %s -> %s\n", i+1, choice.Text, target)
			}
		}

		fmt.Fprintf(out, "\n%d scenes\n", content.Len())
		return nil
	},
}

// checkCmd validates the scene graph
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the story content",
	Long: `Report choices that point at missing scenes, story states without a scene,
scenes outside the known states and scenes that cannot be reached from the start.

Example:
  radio story check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := loadContent()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		problems := 0
		report := func(format string, a ...interface{}) {
			problems++
			fmt.Fprintln(out, red("  "+fmt.Sprintf(format, a...)))
		}

		for _, ref := range content.DanglingReferences() {
			report("%s choice %d points at missing scene %s", ref.SceneID, ref.ChoiceIndex+1, ref.Target)
		}
		for _, state := range content.MissingStates() {
			report("state %s has no scene", state)
		}
		for _, id := range content.UnknownScenes() {
			report("scene %s is not a known story state", id)
		}
		for _, id := range content.Unreachable() {
			report("scene %s cannot be reached from the start", id)
		}

		if problems > 0 {
			return fmt.Errorf("story content has %d problems", problems)
		}

		fmt.Fprintln(out, green(fmt.Sprintf("Story content OK: %d scenes", content.Len())))
		return nil
	},
}

func init() {
	storyCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(storyCmd)
}
