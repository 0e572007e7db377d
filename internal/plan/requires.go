package plan

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/stamp-dev/stamp/internal/errors"
)

// CheckRequires reports whether the running stamp version satisfies the
// plan's "requires" constraint. Development builds (a version that is not
// valid semver, such as "dev") accept every plan.
func CheckRequires(p *Plan, cliVersion string) error {
	if p.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(p.Requires)
	if err != nil {
		return errors.WrapUsage(errors.EInvalidPlan, fmt.Sprintf("plan %s: invalid requires %q", p.Name, p.Requires), err)
	}

	v, err := parseSemver(cliVersion)
	if err != nil {
		return nil
	}

	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, 0, len(reasons))
		for _, r := range reasons {
			msgs = append(msgs, r.Error())
		}
		return errors.Usage(errors.EVersionMismatch,
			fmt.Sprintf("plan %s requires stamp %s, running %s (%s)", p.Name, p.Requires, cliVersion, strings.Join(msgs, "; ")))
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
