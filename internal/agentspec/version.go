package agentspec

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// SupportedVersions is the open_agent_spec range this tool generates for.
const SupportedVersions = ">=1.0.0, <2.0.0"

var supportedRange = func() *semver.Constraints {
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		panic(err)
	}
	return c
}()

// CheckVersion validates the optional top-level open_agent_spec key. It
// returns the declared version, or "" when the key is absent.
func CheckVersion(doc *yaml.Node) (string, error) {
	root := resolve(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return "", invalid("", lineOf(root), "must be a mapping")
	}
	n, ok := lookup(root, KeyVersion)
	if !ok {
		return "", nil
	}
	if !isString(n) {
		return "", invalid(KeyVersion, n.Line, "must be a string")
	}

	v, err := semver.NewVersion(strings.TrimPrefix(n.Value, "v"))
	if err != nil {
		return "", invalid(KeyVersion, n.Line, "%q is not a semantic version", n.Value)
	}
	if !supportedRange.Check(v) {
		return "", invalid(KeyVersion, n.Line, "version %s is not supported (want %s)", v, SupportedVersions)
	}
	return n.Value, nil
}
