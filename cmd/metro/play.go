package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"metropolis/internal/city"
)

type action int

const (
	actionUnknown action = iota
	actionBuild
	actionNext
	actionHelp
	actionRestart
	actionExit
)

func parseAction(s string) action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zone", "build", "b", "1":
		return actionBuild
	case "next", "n", "2":
		return actionNext
	case "help", "h", "?", "3":
		return actionHelp
	case "restart", "r", "4":
		return actionRestart
	case "exit", "quit", "q", "5":
		return actionExit
	default:
		return actionUnknown
	}
}

const introText = `
Aim of the game:
Build and run a thriving city. Place zones, and keep an eye on your money,
electricity and water. Reach the monetary goal within the day limit while
keeping employment, crime, happiness and health under control.
Every zone you build moves your metrics, so plan carefully.
`

const instructionsText = `
How to play:
1. Your city starts on a grid with a few zones already built.
2. You start with money, electricity and water.
3. Each day you may build a limited number of zones, then move on.
4. Zones earn income every day; random events hit your resources.
5. Reach the monetary goal by the last day with healthy metrics to win.
`

const tipsText = `
Tips:
- Lose the game if Employment, Happiness or Health drop below 50,
  or if Crime Rate rises above 30.
- Residential zones lower employment.
- Commercial zones raise employment, lower happiness, and pay a one-off 5% bonus.
- Industrial zones lower happiness and health.
- Schools raise employment and happiness. Hospitals boost health.
- Water and electricity regenerate every day.
`

// showIntro walks through the intro screens. It returns false if the player
// chose to leave.
func showIntro() (bool, error) {
	accent.Println("Welcome to McGee Metropolis!")
	typewrite(success, introText, 10*time.Millisecond)
	for _, page := range []func(){
		func() { typewrite(success, instructionsText, 10*time.Millisecond); renderZoneCatalog() },
		func() { typewrite(success, tipsText, 10*time.Millisecond) },
	} {
		choice, err := promptOptional("\nPress Enter for more, 'play' to start, or 'exit' to leave")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(choice) {
		case "play":
			clearScreen()
			return true, nil
		case "exit":
			return false, nil
		}
		clearScreen()
		page()
	}
	choice, err := promptOptional("\nType 'play' to start or 'exit' to leave")
	if err != nil {
		return false, err
	}
	clearScreen()
	return !strings.EqualFold(choice, "exit"), nil
}

func printHelp() {
	accent.Println("Commands:")
	fmt.Println("  zone    - build a new zone")
	fmt.Println("  next    - move to the next day")
	fmt.Println("  help    - show this message")
	fmt.Println("  restart - start over from day 1")
	fmt.Println("  exit    - leave the game")
}

// runGame is the interactive loop. All game rules live in city.Session; this
// only prompts, dispatches commands and renders.
func runGame(ctx context.Context, sess *city.Session, skipIntro bool) error {
	err := playLoop(ctx, sess, skipIntro)
	if errors.Is(err, io.EOF) {
		fmt.Println()
		return nil
	}
	return err
}

func playLoop(ctx context.Context, sess *city.Session, skipIntro bool) error {
	if !skipIntro {
		ok, err := showIntro()
		if err != nil || !ok {
			return err
		}
	}
	cfg := sess.Config()
	for {
		if err := sess.Start(ctx); err != nil {
			return err
		}
		dawn, err := sess.BeginDay(ctx)
		if err != nil {
			return err
		}
		clearScreen()
		renderDawn(dawn, cfg.Days)

		for !sess.State().GameOver() {
			st := sess.State()
			fmt.Println()
			renderCity(st)

			capped := cfg.MaxZonesPerDay > 0 && st.ZonesBuiltToday >= cfg.MaxZonesPerDay
			label := "Choose an action (zone/next/help/restart/exit)"
			if capped {
				printWarn("You have reached the maximum number of zones you can build today.")
				label = "Choose an action (next/help/restart/exit)"
			}
			text, err := promptOptional(label)
			if err != nil {
				return err
			}

			switch parseAction(text) {
			case actionBuild:
				if capped {
					printWarn("No more building today. Type 'next' to move on.")
					continue
				}
				if err := buildPrompt(ctx, sess); err != nil {
					return err
				}
			case actionNext:
				res, err := sess.Apply(ctx, city.Command{Kind: city.CommandNext})
				if err != nil {
					printError(err.Error())
					continue
				}
				clearScreen()
				if res.Dawn != nil {
					renderDawn(*res.Dawn, cfg.Days)
				} else if res.Outcome.Over {
					renderOutcome(res.Outcome)
				}
			case actionHelp:
				printHelp()
			case actionRestart:
				ok, err := promptYesNo("Are you sure you want to restart the game?")
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				res, err := sess.Apply(ctx, city.Command{Kind: city.CommandRestart})
				if err != nil {
					printError(err.Error())
					continue
				}
				clearScreen()
				printInfo("Restarting the game.")
				if res.Dawn != nil {
					renderDawn(*res.Dawn, cfg.Days)
				}
			case actionExit:
				ok, err := promptYesNo("Are you sure you want to exit the game?")
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				if _, err := sess.Apply(ctx, city.Command{Kind: city.CommandExit}); err != nil {
					printError(err.Error())
				}
				success.Println("Goodbye! Resources have been reset to default values.")
				return nil
			default:
				printWarn("Invalid choice. Type 'zone', 'next', 'help', 'restart' or 'exit'.")
			}
		}

		success.Println("\nThank you for playing McGee Metropolis!")
		again, err := promptYesNo("Would you like to play again?")
		if err != nil {
			return err
		}
		if !again {
			success.Println("Goodbye! Hope to see you again!")
			return nil
		}
	}
}

func buildPrompt(ctx context.Context, sess *city.Session) error {
	last := sess.State().Grid.Size() - 1
	x, err := promptInt(fmt.Sprintf("Enter X coordinate (0-%d)", last), 0, last)
	if err != nil {
		return err
	}
	y, err := promptInt(fmt.Sprintf("Enter Y coordinate (0-%d)", last), 0, last)
	if err != nil {
		return err
	}
	z, err := promptZone()
	if err != nil {
		return err
	}
	res, err := sess.Apply(ctx, city.Command{Kind: city.CommandBuild, X: x, Y: y, Zone: z})
	switch {
	case errors.Is(err, city.ErrOccupiedPlot):
		printWarn("This plot is already occupied, please choose another plot.")
	case errors.Is(err, city.ErrInsufficientFunds):
		printWarn("Sorry, you do not have enough money to build this zone right now.")
	case errors.Is(err, city.ErrDailyLimit):
		printWarn("You have reached the maximum number of zones you can build today.")
	case err != nil:
		printError(err.Error())
	default:
		renderBuild(*res.Build)
	}
	return nil
}
