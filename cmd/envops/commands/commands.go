// Package commands defines the envops CLI commands. Each command resolves
// its environment, builds a dependency-injection container, and invokes the
// orchestration it needs; user-facing output goes to stdout, operational
// logs to the structured logger.
package commands

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/di"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
)

// environmentFlag is shared by every command.
func environmentFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "environment",
		Aliases:  []string{"e"},
		Usage:    "Target environment (Development, QA, or Production)",
		Required: true,
		EnvVars:  []string{"ENVIRONMENT_NAME"},
	}
}

func resourceGroupFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "resource-group",
		Aliases: []string{"g"},
		Usage:   "Resource group (defaults to rg-tourbus-{env})",
		EnvVars: []string{"RESOURCE_GROUP_NAME"},
	}
}

// resolveTarget parses the environment flag and applies the resource group
// naming convention when no explicit group is given.
func resolveTarget(c *cli.Context) (envs.Environment, string, error) {
	env, err := envs.Parse(c.String("environment"))
	if err != nil {
		return "", "", err
	}
	resourceGroup := c.String("resource-group")
	if resourceGroup == "" {
		resourceGroup = env.DefaultResourceGroup()
	}
	return env, resourceGroup, nil
}

// newContainer builds the DI container for a command invocation.
func newContainer(c *cli.Context, env envs.Environment) (di.Container, error) {
	var opts []di.Option
	if profile := c.String("profile"); profile != "" {
		opts = append(opts, di.WithScalingProfile(profile))
	}
	container, err := di.New(env, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependencies: %w", err)
	}
	return container, nil
}

// confirm prompts for a yes/no answer; anything but yes/y declines.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y"
}
