package patch

import (
	"fmt"
	"strings"
)

// ValidatePatchOperations checks every op targets an allowed path. An allowed
// path ending in "/*" matches any direct child of its prefix. An empty allow
// list permits nothing.
func ValidatePatchOperations(ops []Operation, allowedPaths []string) error {
	for i, op := range ops {
		if !pathAllowed(op.Path, allowedPaths) {
			return fmt.Errorf("operation %d: path %q is not in the allowed paths set", i, op.Path)
		}
	}
	return nil
}

func pathAllowed(path string, allowedPaths []string) bool {
	for _, allowed := range allowedPaths {
		if allowed == path {
			return true
		}
		prefix, ok := strings.CutSuffix(allowed, "/*")
		if !ok {
			continue
		}
		rest, found := strings.CutPrefix(path, prefix+"/")
		if found && rest != "" && !strings.Contains(rest, "/") {
			return true
		}
	}
	return false
}
