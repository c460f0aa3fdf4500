package graph

// Kind selects the forward/backward math a node applies.
// The set is closed; every switch over Kind lists all of them.
type Kind int

// Node kinds.
const (
	Placeholder Kind = iota
	Parameter
	MatMul
	Add
	Log
	Reshape
	ReLU
	Softmax
	ScalarMul
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Placeholder:
		return "placeholder"
	case Parameter:
		return "parameter"
	case MatMul:
		return "matmul"
	case Add:
		return "add"
	case Log:
		return "log"
	case Reshape:
		return "reshape"
	case ReLU:
		return "relu"
	case Softmax:
		return "softmax"
	case ScalarMul:
		return "scalar_mul"
	default:
		return "unknown"
	}
}

// IsLeaf reports whether nodes of this kind have no dependencies.
func (k Kind) IsLeaf() bool {
	return k == Placeholder || k == Parameter
}
