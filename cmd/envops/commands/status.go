package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/snapshot"
)

// StatusCommand returns the status command.
func StatusCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "List an environment's resources and compare with the last snapshot",
		Description: `Lists every resource in the environment's resource group. When a
resource-state snapshot exists, the current count is compared against
it and a mismatch is reported (informationally; snapshots are an audit
trail, not a source of truth).

Examples:
  envops status --environment Development
  envops status --environment Production --resource-group rg-tourbus-prod`,
		Flags: []cli.Flag{
			environmentFlag(),
			resourceGroupFlag(),
		},
		Action: func(c *cli.Context) error {
			return statusAction(c, logger)
		},
	}
}

func statusAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(clients *azure.Clients, snapshots *snapshot.Store) error {
		resources, err := clients.Inventory.List(c.Context, resourceGroup)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s): %d resource(s)\n", env, resourceGroup, len(resources))
		for _, r := range resources {
			fmt.Printf("  - %-40s %s\n", r.Name, r.Type)
		}

		saved, takenAt, err := snapshots.LoadLatest(env)
		if errors.Is(err, apperrors.ErrSnapshotNotFound) {
			fmt.Println("No resource snapshot on record.")
			return nil
		}
		if err != nil {
			return err
		}

		if len(saved) == len(resources) {
			fmt.Printf("Matches snapshot from %s (%d resources).\n", takenAt.Format("2006-01-02"), len(saved))
		} else {
			fmt.Printf("Snapshot from %s recorded %d resources; %d present now.\n",
				takenAt.Format("2006-01-02"), len(saved), len(resources))
		}
		return nil
	})
}
