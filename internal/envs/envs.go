// Package envs defines the named environments of the TourBus stack and the
// resource-group naming convention shared by every command.
package envs

import (
	"fmt"
	"strings"
)

// Environment identifies one of the provisioned TourBus environments.
type Environment string

const (
	Development Environment = "Development"
	QA          Environment = "QA"
	Production  Environment = "Production"
)

// All lists every known environment in promotion order.
func All() []Environment {
	return []Environment{Development, QA, Production}
}

// Parse resolves a user-supplied environment name. Both the long form
// ("Development") and the short form used in resource names ("dev") are
// accepted, case-insensitively.
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return Development, nil
	case "qa":
		return QA, nil
	case "production", "prod", "prd":
		return Production, nil
	default:
		return "", fmt.Errorf("unknown environment %q (expected Development, QA, or Production)", s)
	}
}

// Short returns the abbreviation used in resource and file names.
func (e Environment) Short() string {
	switch e {
	case Development:
		return "dev"
	case QA:
		return "qa"
	case Production:
		return "prod"
	default:
		return strings.ToLower(string(e))
	}
}

// DefaultResourceGroup returns the conventional resource group for an
// environment, e.g. "rg-tourbus-dev".
func (e Environment) DefaultResourceGroup() string {
	return "rg-tourbus-" + e.Short()
}

func (e Environment) String() string {
	return string(e)
}
