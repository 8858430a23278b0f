package patch

const (
	OperationAdd     = "add"
	OperationReplace = "replace"
	OperationRemove  = "remove"
)

// Operation is a single RFC6902 operation. Value is always serialized so that
// a nil value clears a field to JSON null.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Set replaces the value at path.
func Set(path string, value any) Operation {
	return Operation{Op: OperationReplace, Path: path, Value: value}
}

// Clear sets the value at path to null.
func Clear(path string) Operation {
	return Operation{Op: OperationReplace, Path: path, Value: nil}
}
