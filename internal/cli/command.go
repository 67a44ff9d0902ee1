package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/hades-route-manager/internal/routes"
	"github.com/example/hades-route-manager/internal/routes/config"
	"github.com/example/hades-route-manager/internal/routes/domain"
	"github.com/example/hades-route-manager/internal/routes/tree"
)

const gameRunningWarning = "Close the game before saving or loading: it writes the live save directory itself and nothing locks it."

// NewRootCommand constructs the root Cobra command for hrm. Run without a
// subcommand it starts the interactive menu session.
func NewRootCommand(mgr *routes.Manager, prompter Prompter, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrm",
		Short: "Hades Route Manager",
		Long: "hrm keeps a tree of save snapshots per route so you can branch, save and reload play-throughs.\n\n" +
			gameRunningWarning,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mgr.InitInfra(); err != nil {
				return err
			}
			return newSession(mgr, prompter, stdout, stderr).run()
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(newRoutesCommand(mgr, stdout))
	cmd.AddCommand(newSlotsCommand(mgr, stdout))
	cmd.AddCommand(newTreeCommand(mgr, stdout))
	cmd.AddCommand(newCreateCommand(mgr, prompter, stdout, stderr))
	cmd.AddCommand(newSaveCommand(mgr, stdout))
	cmd.AddCommand(newLoadCommand(mgr, stdout))
	cmd.AddCommand(newPruneCommand(mgr, prompter, stdout))

	return cmd
}

func newRoutesCommand(mgr *routes.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := mgr.ListRoutes()
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				fmt.Fprintln(stdout, "No routes found. Use 'hrm create' to start one.")
				return nil
			}
			for _, node := range nodes {
				fmt.Fprintln(stdout, node.Name)
			}
			return nil
		},
	}
}

func newSlotsCommand(mgr *routes.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the game's save slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := mgr.ListSaveSlots()
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Fprintf(stdout, "No save slots found in %s.\n", mgr.SaveDir())
				return nil
			}
			for _, slot := range slots {
				fmt.Fprintln(stdout, slot.Name)
			}
			return nil
		},
	}
}

func newTreeCommand(mgr *routes.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <route>",
		Short: "Show the snapshot tree of a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := mgr.OpenRoute(args[0], "")
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, strings.TrimSpace(args[0]))
			return printTree(mgr, stdout, state.Route(), 1)
		},
	}
}

func printTree(mgr *routes.Manager, w io.Writer, path string, depth int) error {
	children, err := mgr.ListChildren(path)
	if err != nil {
		return err
	}
	for _, child := range children {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), child.Name)
		if err := printTree(mgr, w, child.Path, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func newCreateCommand(mgr *routes.Manager, prompter Prompter, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "create [slot] [name]",
		Short: "Start a new route from a save slot",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mgr.InitInfra(); err != nil {
				return err
			}
			slotName := ""
			if len(args) > 0 {
				slotName = args[0]
			}
			name := ""
			if len(args) > 1 {
				name = args[1]
				if valid, err := mgr.ValidateName(name); !valid {
					return fmt.Errorf("invalid route name: %w", err)
				}
			}
			node, err := createRoute(mgr, prompter, stderr, slotName, name)
			if err != nil {
				return err
			}
			if node.Path == "" {
				fmt.Fprintln(stdout, "Aborted creating route.")
				return nil
			}
			fmt.Fprintf(stdout, "Created route: %s\n", node.Name)
			return nil
		},
	}
}

// createRoute asks for whatever of slot and name is missing and creates the
// route. A zero Node with a nil error means the user backed out.
func createRoute(mgr *routes.Manager, prompter Prompter, stderr io.Writer, slotName, name string) (tree.Node, error) {
	slots, err := mgr.ListSaveSlots()
	if err != nil {
		return tree.Node{}, err
	}
	if len(slots) == 0 {
		return tree.Node{}, fmt.Errorf("no save slots found in %s", mgr.SaveDir())
	}

	var slot tree.Node
	if slotName == "" {
		idx, _, err := prompter.Select("Choose the initial save for the route", nodeNames(slots), "")
		if err != nil {
			return tree.Node{}, err
		}
		slot = slots[idx]
	} else {
		found := false
		for _, s := range slots {
			if s.Name == slotName {
				slot, found = s, true
				break
			}
		}
		if !found {
			return tree.Node{}, fmt.Errorf("save slot %q not found in %s", slotName, mgr.SaveDir())
		}
	}

	for {
		if name == "" {
			value, err := prompter.Prompt("Enter a name for the route")
			if err != nil {
				return tree.Node{}, err
			}
			name = strings.TrimSpace(value)
			if valid, vErr := mgr.ValidateName(name); !valid {
				fmt.Fprintf(stderr, "Error: %s\n", vErr.Error())
				name = ""
				continue
			}
		}
		exists, err := mgr.RouteExists(name)
		if err != nil {
			return tree.Node{}, err
		}
		if exists && mgr.RouteCollision() == config.CollisionFail {
			return tree.Node{}, fmt.Errorf("%w: route %q", domain.ErrNameCollision, name)
		}
		if exists {
			confirm, err := prompter.Confirm(fmt.Sprintf("Route '%s' already exists. Overwrite its save? (y/N)", name), false)
			if err != nil {
				return tree.Node{}, err
			}
			if !confirm {
				return tree.Node{}, nil
			}
		}
		return mgr.CreateRoute(slot, name)
	}
}

func newSaveCommand(mgr *routes.Manager, stdout io.Writer) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "save <route> <name>",
		Short: "Save the live game as a new snapshot",
		Long:  "Save the live game as a new child snapshot of --at (the route root by default).\n\n" + gameRunningWarning,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := mgr.OpenRoute(args[0], at)
			if err != nil {
				return err
			}
			node, err := mgr.SaveSnapshot(state, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Saved snapshot: %s\n", node.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Snapshot to save under, as a path relative to the route (e.g. Boss1/Boss2)")

	return cmd
}

func newLoadCommand(mgr *routes.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "load <route> <snapshot>",
		Short: "Restore a snapshot into the live game",
		Long:  "Restore a snapshot, given as a path relative to the route, into the live save directory.\n\n" + gameRunningWarning,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mgr.InitInfra(); err != nil {
				return err
			}
			state, err := mgr.OpenRoute(args[0], args[1])
			if err != nil {
				return err
			}
			if err := mgr.LoadSnapshot(state); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Loaded snapshot: %s\n", state.Snapshot())
			return nil
		},
	}
}

func newPruneCommand(mgr *routes.Manager, prompter Prompter, stdout io.Writer) *cobra.Command {
	var olderThanStr string
	var force bool

	cmd := &cobra.Command{
		Use:   "prune-backups",
		Short: "Remove outdated backups of overwritten live saves",
		RunE: func(cmd *cobra.Command, args []string) error {
			var duration time.Duration
			var err error

			if olderThanStr != "" {
				duration, err = parseHumanDuration(olderThanStr)
				if err != nil {
					return err
				}
			} else {
				options := []string{"30d", "90d", "180d", "Cancel"}
				_, choice, err := prompter.Select("Prune backups older than", options, "30d")
				if err != nil {
					return err
				}
				if choice == "Cancel" {
					fmt.Fprintln(stdout, "Prune cancelled.")
					return nil
				}
				duration, err = parseHumanDuration(choice)
				if err != nil {
					return err
				}
			}

			if !force {
				confirm, err := prompter.Confirm(fmt.Sprintf("Delete backups older than %s? (y/N)", humanizeDuration(duration)), false)
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(stdout, "Prune cancelled.")
					return nil
				}
			}

			count, err := mgr.PruneBackups(duration)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted %d backup(s).\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThanStr, "older-than", "", "Delete backups older than the specified duration (e.g. 30d)")
	cmd.Flags().BoolVar(&force, "force", false, "Do not prompt for confirmation")

	return cmd
}

func parseHumanDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return 0, errors.New("duration cannot be empty")
	}
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day duration: %w", err)
		}
		if days < 0 {
			return 0, fmt.Errorf("invalid day duration: %d", days)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if strings.HasSuffix(value, "h") || strings.HasSuffix(value, "m") || strings.HasSuffix(value, "s") {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return 0, err
		}
		if dur < 0 {
			return 0, fmt.Errorf("duration cannot be negative")
		}
		return dur, nil
	}
	return 0, fmt.Errorf("unsupported duration format: %s", value)
}

func humanizeDuration(d time.Duration) string {
	if d > 0 && d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	}
	if d > 0 && d%time.Hour == 0 {
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	return d.String()
}

func nodeNames(nodes []tree.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}
