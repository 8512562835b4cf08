package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/user/cliff-radio/internal/game"
	"github.com/user/cliff-radio/internal/types"
)

// openSlot asks for a slot and starts or loads a game in it.
// It returns false when the player quits instead.
func (c *Console) openSlot(ctx context.Context) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		slots, err := c.game.Slots()
		if err != nil {
			return false, err
		}

		slot, err := c.selectSlot(slots)
		if err != nil || slot == 0 {
			return false, err
		}
		info := slots[slot-1]

		switch {
		case !info.Exists:
			return true, c.game.StartNewGame(slot)

		case info.Corrupt():
			c.screen.Println(fmt.Sprintf("Save %d is damaged: %v", slot, info.Err), "red")
			ok, err := c.confirmOverwrite(slot)
			if err != nil {
				return false, err
			}
			if ok {
				return true, c.game.StartNewGame(slot)
			}

		default:
			answer, err := c.screen.ReadLine(promptContinue)
			if err != nil {
				return false, err
			}
			if isYes(answer) {
				if err := c.game.LoadGame(slot); err != nil {
					c.screen.Println(fmt.Sprintf("Could not load save %d: %v", slot, err), "red")
					continue
				}
				return true, nil
			}

			ok, err := c.confirmOverwrite(slot)
			if err != nil {
				return false, err
			}
			if ok {
				return true, c.game.StartNewGame(slot)
			}
		}
	}
}

// selectSlot lists the slots and reads a slot number; 0 means quit
func (c *Console) selectSlot(slots []types.SlotInfo) (int, error) {
	c.screen.Clear()
	c.screen.Header("SELECT SAVE", "Cliff Radio")
	for _, info := range slots {
		c.screen.Println(c.formatter.FormatSlot(info), c.formatter.SlotColor(info))
	}

	for {
		input, err := c.screen.ReadLine(promptSlot)
		if err != nil {
			return 0, err
		}

		input = cleanCommand(input)
		if input == "quit" || input == "q" {
			return 0, nil
		}

		slot, err := strconv.Atoi(input)
		if err == nil && slot >= 1 && slot <= game.MaxSlots {
			return slot, nil
		}
		c.screen.Println(fmt.Sprintf("Enter a number from 1 to %d or 'quit'.", game.MaxSlots), "red")
	}
}

// confirmOverwrite asks before replacing an occupied slot. Empty slots need no confirmation.
func (c *Console) confirmOverwrite(slot int) (bool, error) {
	exists, err := c.game.SlotExists(slot)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}

	answer, err := c.screen.ReadLine(fmt.Sprintf(promptOverwrite, slot))
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

func isYes(answer string) bool {
	switch cleanCommand(answer) {
	case "y", "yes":
		return true
	}
	return false
}
