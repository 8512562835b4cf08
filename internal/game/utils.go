package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/user/cliff-radio/internal/story"
	"github.com/user/cliff-radio/internal/types"
	"go.uber.org/zap"
)

// DefaultMaxSteps bounds an autopilot run on content with cycles
const DefaultMaxSteps = 200

// Autopilot run outcomes
const (
	OutcomeEnding    = "ending"
	OutcomeDeadEnd   = "dead_end"
	OutcomeIntegrity = "integrity_error"
	OutcomeStepLimit = "step_limit"
)

// DiceRoller handles dice rolling for the game
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a seeded random number generator
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller with a fixed seed for reproducible runs
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Roll rolls a dice with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.rng.Intn(sides) + 1
}

var staticGlyphs = []rune("░▒▓#*~-.·")

// StaticBurst returns a line of radio interference width glyphs wide
func (dr *DiceRoller) StaticBurst(width int) string {
	if width <= 0 {
		return ""
	}
	line := make([]rune, width)
	for i := range line {
		line[i] = staticGlyphs[dr.Roll(len(staticGlyphs))-1]
	}
	return string(line)
}

// Playthrough is the report of one autopilot run
type Playthrough struct {
	Path     []string
	Steps    int
	Outcome  string
	Ending   string
	Err      error
	Progress *story.Progress
}

// AutoPilot plays the story with random choices
type AutoPilot struct {
	content    *story.Content
	diceRoller *DiceRoller
	maxSteps   int

	// Percent chance to prefer a choice that raises someone's trust
	TrustBias int

	Logger *zap.Logger
}

// NewAutoPilot creates an autopilot over content
func NewAutoPilot(content *story.Content, diceRoller *DiceRoller, logger *zap.Logger) *AutoPilot {
	if diceRoller == nil {
		diceRoller = NewDiceRoller()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AutoPilot{
		content:    content,
		diceRoller: diceRoller,
		maxSteps:   DefaultMaxSteps,
		TrustBias:  60,
		Logger:     logger,
	}
}

// SetMaxSteps changes the step cap; values below 1 are ignored
func (ap *AutoPilot) SetMaxSteps(steps int) {
	if steps > 0 {
		ap.maxSteps = steps
	}
}

// Run walks the story from the start with in-memory progress until it stops
func (ap *AutoPilot) Run(ctx context.Context) (*Playthrough, error) {
	progress := story.NewProgress(ap.content, "", ap.Logger)
	run := &Playthrough{Progress: progress}

	for {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		scene, err := progress.ResolveCurrentScene()
		if err != nil {
			run.Outcome = OutcomeIntegrity
			run.Err = err
			break
		}

		progress.EnterScene(scene)
		run.Path = append(run.Path, scene.ID)

		if progress.IsEnding() {
			run.Outcome = OutcomeEnding
			run.Ending = scene.ID
			break
		}
		if len(scene.Choices) == 0 {
			run.Outcome = OutcomeDeadEnd
			break
		}
		if run.Steps >= ap.maxSteps {
			run.Outcome = OutcomeStepLimit
			break
		}

		progress.ApplyChoice(ap.ChooseChoice(scene.Choices))
		run.Steps++
	}

	ap.Logger.Info("Autopilot run finished",
		zap.String("outcome", run.Outcome),
		zap.String("ending", run.Ending),
		zap.Int("steps", run.Steps))

	return run, nil
}

// ChooseChoice selects a choice, favouring ones that build trust
func (ap *AutoPilot) ChooseChoice(choices []types.StoryChoice) types.StoryChoice {
	// Check for trust building choices first
	var warm []types.StoryChoice
	for _, choice := range choices {
		for _, delta := range choice.TrustChanges {
			if delta > 0 {
				warm = append(warm, choice)
				break
			}
		}
	}

	if len(warm) > 0 && ap.diceRoller.Roll(100) <= ap.TrustBias {
		return warm[ap.diceRoller.Roll(len(warm))-1]
	}

	// Otherwise choose randomly from all choices
	return choices[ap.diceRoller.Roll(len(choices))-1]
}
