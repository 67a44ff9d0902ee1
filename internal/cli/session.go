package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/hades-route-manager/internal/routes"
	"github.com/example/hades-route-manager/internal/routes/navigation"
	"github.com/example/hades-route-manager/internal/routes/tree"
)

const (
	optionCreate = "Create new route."
	optionExit   = "Exit."
	optionNone   = "None of the above."
)

// session is the interactive text menu. It keeps the navigation state for the
// lifetime of the process and re-renders from the filesystem after every
// action.
type session struct {
	mgr      *routes.Manager
	prompter Prompter
	stdout   io.Writer
	stderr   io.Writer
	state    *navigation.State
}

func newSession(mgr *routes.Manager, prompter Prompter, stdout, stderr io.Writer) *session {
	return &session{
		mgr:      mgr,
		prompter: prompter,
		stdout:   stdout,
		stderr:   stderr,
		state:    &navigation.State{},
	}
}

func (s *session) run() error {
	for {
		var done bool
		var err error
		if s.state.Route() == "" {
			done, err = s.chooseRoute()
		} else {
			done, err = s.routeStep()
		}
		if errors.Is(err, ErrPromptCancelled) {
			return nil
		}
		if err != nil || done {
			return err
		}
	}
}

func (s *session) chooseRoute() (bool, error) {
	nodes, err := s.mgr.ListRoutes()
	if err != nil {
		return false, err
	}
	items := append(nodeNames(nodes), optionCreate, optionExit)

	idx, _, err := s.prompter.Select("Choose a route", items, "")
	if err != nil {
		return false, err
	}
	// Decide by position: a route may carry the same text as an option.
	switch {
	case idx >= 0 && idx < len(nodes):
		s.state.SetRoute(nodes[idx].Path)
	case idx == len(nodes):
		node, err := createRoute(s.mgr, s.prompter, s.stderr, "", "")
		if err != nil {
			s.report(err)
			return false, nil
		}
		if node.Path == "" {
			fmt.Fprintln(s.stdout, "Aborted creating route.")
			return false, nil
		}
		fmt.Fprintf(s.stdout, "Created route: %s\n", node.Name)
		s.state.SetRoute(node.Path)
	default:
		return true, nil
	}
	return false, nil
}

func (s *session) routeStep() (bool, error) {
	position, err := s.mgr.Position(s.state)
	if err != nil {
		s.report(err)
		s.state.SetRoute("")
		return false, nil
	}
	fmt.Fprintln(s.stdout, position)

	entries := s.mgr.RouteMenu(s.state, promptInputs{s}).Enabled()
	items := append(entries.Labels(), optionExit)

	idx, _, err := s.prompter.Select("Choose an action", items, "")
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(entries) {
		return true, nil
	}
	if err := entries[idx].Invoke(); err != nil {
		s.report(err)
	}
	return false, nil
}

// report prints an action failure and lets the session continue. A prompt
// cancelled inside an action only aborts that action.
func (s *session) report(err error) {
	if errors.Is(err, ErrPromptCancelled) {
		fmt.Fprintln(s.stdout, "Cancelled.")
		return
	}
	fmt.Fprintf(s.stderr, "Error: %v\n", err)
}

// promptInputs answers the manager's menu questions through the prompter.
type promptInputs struct {
	s *session
}

func (in promptInputs) SnapshotName() (string, error) {
	for {
		value, err := in.s.prompter.Prompt("Enter a name for the snapshot")
		if err != nil {
			return "", err
		}
		value = strings.TrimSpace(value)
		if valid, vErr := in.s.mgr.ValidateName(value); !valid {
			fmt.Fprintf(in.s.stderr, "Error: %s\n", vErr.Error())
			continue
		}
		return value, nil
	}
}

func (in promptInputs) ChooseChild(children []tree.Node) (tree.Node, error) {
	items := append(nodeNames(children), optionNone)
	idx, _, err := in.s.prompter.Select("Choose a child snapshot", items, "")
	if err != nil {
		return tree.Node{}, err
	}
	if idx < 0 || idx >= len(children) {
		return tree.Node{}, nil
	}
	return children[idx], nil
}
