package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/cliff-radio/internal/game"
	"github.com/user/cliff-radio/internal/story"
	"github.com/user/cliff-radio/internal/types"
	"go.uber.org/zap"
)

// runStory plays scenes until an ending, a dead end, a content error or 'quit'.
// Only interruptions are returned as errors; everything else goes back to the menu.
func (c *Console) runStory(ctx context.Context) error {
	c.screen.Clear()
	c.screen.Header("STORY MODE", "the frequency of fate")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		scene, err := c.game.EnterCurrentScene()
		if err != nil {
			var integrity *story.ContentIntegrityError
			if errors.As(err, &integrity) {
				c.screen.Println("The signal breaks up. This part of the story cannot be reached.", "red")
				c.screen.Println(err.Error(), "gray")
				return c.screen.WaitForContinue("")
			}
			return err
		}

		if err := c.displayScene(ctx, scene); err != nil {
			return err
		}

		if types.StoryState(scene.ID).IsEnding() {
			return c.finishEnding(ctx)
		}

		if len(scene.Choices) == 0 {
			c.Logger.Warn("Scene has no choices", zap.String("state", scene.ID))
			c.screen.Println("The transmission ends here.", "gray")
			return c.screen.WaitForContinue("")
		}

		index, err := c.readChoice(scene)
		if err != nil {
			return err
		}
		if index < 0 {
			c.screen.Println("Back to the menu.", "yellow")
			return nil
		}

		outcome, err := c.game.SelectChoice(index)
		if err != nil {
			if errors.Is(err, game.ErrInvalidChoice) {
				c.screen.Println("Invalid choice, try again.", "red")
				continue
			}
			return err
		}

		if err := c.afterChoice(ctx, outcome); err != nil {
			return err
		}
	}
}

// displayScene prints the title, paragraphs and choices of a scene
func (c *Console) displayScene(ctx context.Context, scene *types.StoryScene) error {
	if scene.Title != "" {
		c.screen.Section(scene.Title, "cyan")
	}

	for _, line := range scene.Content {
		// Empty lines are paragraph breaks
		if strings.TrimSpace(line) == "" {
			c.screen.Println("", "")
			continue
		}
		if err := c.say(ctx, line, "white"); err != nil {
			return err
		}
		if err := c.pause(ctx); err != nil {
			return err
		}
	}

	if len(scene.Choices) == 0 {
		return nil
	}

	if err := c.say(ctx, "\nWhat do you do?", "yellow"); err != nil {
		return err
	}
	for _, line := range c.formatter.FormatChoices(scene.Choices) {
		if err := c.say(ctx, line, "white"); err != nil {
			return err
		}
	}

	return nil
}

// readChoice returns the zero-based index of the chosen option, or -1 for 'quit'
func (c *Console) readChoice(scene *types.StoryScene) (int, error) {
	prompt := fmt.Sprintf(promptChoice, len(scene.Choices))

	for {
		input, err := c.screen.ReadLine(prompt)
		if err != nil {
			return 0, err
		}

		input = cleanCommand(input)
		if input == "quit" || input == "q" {
			return -1, nil
		}

		number, err := strconv.Atoi(input)
		if err != nil {
			c.screen.Println("Please enter a number.", "red")
			continue
		}
		if number < 1 || number > len(scene.Choices) {
			c.screen.Println("Invalid choice, try again.", "red")
			continue
		}

		return number - 1, nil
	}
}

func (c *Console) afterChoice(ctx context.Context, outcome *types.ChoiceOutcome) error {
	if outcome.Static {
		if err := c.screen.Static(ctx, c.diceRoller.StaticBurst(40)); err != nil {
			return err
		}
	}

	if outcome.SaveRequested {
		if outcome.SaveErr != nil {
			c.screen.Println(fmt.Sprintf("Could not save: %v", outcome.SaveErr), "red")
		} else {
			c.screen.Println("Progress saved.", "green")
		}
	}

	return nil
}

func (c *Console) finishEnding(ctx context.Context) error {
	if err := c.say(ctx, "\n- THE END -", "cyan"); err != nil {
		return err
	}

	c.saveWithNotice()
	return c.screen.WaitForContinue("")
}
