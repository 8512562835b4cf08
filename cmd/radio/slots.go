package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/user/cliff-radio/internal/console"
	"github.com/user/cliff-radio/internal/game"
)

// slotsCmd lists the save slots
var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List save slots",
	Long: `List the save slots in the configured saves directory.

Example:
  radio slots
  RADIO_SAVES_DIR=/tmp/saves radio slots`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		saves, err := newSaveManager()
		if err != nil {
			return err
		}

		slots, err := saves.ListSlots()
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}

		formatter := console.NewFormatter()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cyan("Saves in "+saves.Dir()))
		for _, info := range slots {
			line := formatter.FormatSlot(info)
			switch formatter.SlotColor(info) {
			case "red":
				line = red(line)
			case "gray":
				line = gray(line)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

// deleteSlotCmd removes one save slot
var deleteSlotCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a save slot",
	Long: `Delete the save file of one slot. Deleting an empty slot is not an error.

Example:
  radio slots delete 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%q is not a slot number", args[0])
		}

		saves, err := newSaveManager()
		if err != nil {
			return err
		}

		if err := saves.DeleteSlot(slot); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), green(fmt.Sprintf("Deleted slot %d", slot)))
		return nil
	},
}

func newSaveManager() (*game.SaveManager, error) {
	content, err := loadContent()
	if err != nil {
		return nil, err
	}
	return game.NewSaveManager(cfg.Saves.Dir, content, logger), nil
}

func init() {
	slotsCmd.AddCommand(deleteSlotCmd)
	rootCmd.AddCommand(slotsCmd)
}
