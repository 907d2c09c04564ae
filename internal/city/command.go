package city

import (
	"context"
	"fmt"
)

type CommandKind int

const (
	CommandBuild CommandKind = iota + 1
	CommandNext
	CommandRestart
	CommandExit
)

func (k CommandKind) String() string {
	switch k {
	case CommandBuild:
		return "build"
	case CommandNext:
		return "next"
	case CommandRestart:
		return "restart"
	case CommandExit:
		return "exit"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is one player action taken between simulation steps.
type Command struct {
	Kind CommandKind
	X, Y int
	Zone ZoneType
}

type ActionResult struct {
	Command Command
	Build   *BuildReport
	Dawn    *DayReport
	Outcome Outcome
}

// Apply runs a single player command. "next" closes the current day and,
// unless that ends the game, opens the following one; "restart" opens day 1
// of a fresh run.
func (s *Session) Apply(ctx context.Context, cmd Command) (ActionResult, error) {
	res := ActionResult{Command: cmd}
	switch cmd.Kind {
	case CommandBuild:
		report, err := s.Build(ctx, cmd.X, cmd.Y, cmd.Zone)
		if err != nil {
			return res, err
		}
		res.Build = &report
	case CommandNext:
		out, err := s.EndDay(ctx)
		if err != nil {
			return res, err
		}
		if !out.Over {
			if err := s.dawn(ctx, &res); err != nil {
				return res, err
			}
		}
	case CommandRestart:
		if err := s.Restart(ctx); err != nil {
			return res, err
		}
		if err := s.dawn(ctx, &res); err != nil {
			return res, err
		}
	case CommandExit:
		if err := s.Exit(ctx); err != nil {
			return res, err
		}
	default:
		return res, fmt.Errorf("unknown command %v", cmd.Kind)
	}
	if s.state != nil {
		res.Outcome = s.state.Outcome
	}
	return res, nil
}

func (s *Session) dawn(ctx context.Context, res *ActionResult) error {
	report, err := s.BeginDay(ctx)
	if err != nil {
		return err
	}
	res.Dawn = &report
	return nil
}
