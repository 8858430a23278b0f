package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyRFC6902 applies ops to a JSON round-trip of current and decodes the
// result into a fresh T. current is never modified.
func ApplyRFC6902[T any](current T, ops []Operation) (T, error) {
	var zero T

	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal current state: %w", err)
	}

	if len(ops) > 0 {
		ops = FixOperation(currentJSON, ops)

		patchJSON, err := sonic.Marshal(ops)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal patch operations: %w", err)
		}

		p, err := jsonpatch.DecodePatch(patchJSON)
		if err != nil {
			return zero, fmt.Errorf("failed to decode patch: %w", err)
		}

		currentJSON, err = p.Apply(currentJSON)
		if err != nil {
			return zero, fmt.Errorf("failed to apply patch: %w", err)
		}
	}

	var result T
	if err := sonic.Unmarshal(currentJSON, &result); err != nil {
		return zero, fmt.Errorf("type mismatch: patch would result in invalid type: %w", err)
	}

	return result, nil
}

// FixOperation turns replace operations on missing paths into adds and drops
// removes of missing paths.
func FixOperation(currentJSON []byte, ops []Operation) []Operation {
	var doc any
	if err := sonic.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case OperationReplace:
			if !pathExists(doc, op.Path) {
				op.Op = OperationAdd
			}
			fixed = append(fixed, op)
		case OperationRemove:
			if pathExists(doc, op.Path) {
				fixed = append(fixed, op)
			}
		default:
			fixed = append(fixed, op)
		}
	}

	return fixed
}

func pathExists(doc any, path string) bool {
	if path == "" {
		return true
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}

	cur := doc
	for _, token := range strings.Split(path[1:], "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return false
			}
			cur = value
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return false
			}
			cur = node[index]
		default:
			return false
		}
	}

	return true
}
