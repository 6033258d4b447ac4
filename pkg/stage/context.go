package stage

// ExecutionMode is the deployment topology the surrounding stage runs
// under. It decides which configuration sources are valid: a directory
// path on the submitting host means nothing to a cluster worker.
type ExecutionMode int

const (
	// Standalone runs the pipeline on the submitting host.
	Standalone ExecutionMode = iota

	// ClusterBatch runs the pipeline as a distributed batch job.
	ClusterBatch

	// ClusterStreaming runs the pipeline as a distributed streaming job.
	ClusterStreaming
)

// IsCluster reports whether the mode is a distributed one.
func (m ExecutionMode) IsCluster() bool {
	return m == ClusterBatch || m == ClusterStreaming
}

func (m ExecutionMode) String() string {
	switch m {
	case Standalone:
		return "standalone"
	case ClusterBatch:
		return "cluster-batch"
	case ClusterStreaming:
		return "cluster-streaming"
	default:
		return "unknown"
	}
}

// Context is the slice of the host pipeline's stage context the validator
// needs. The host engine owns the full context; this interface keeps the
// validator testable without it.
type Context interface {
	// ExecutionMode returns the topology the stage runs under.
	ExecutionMode() ExecutionMode

	// ResourcesDir returns the root directory for stage resources, used
	// to resolve relative configuration-directory paths.
	ResourcesDir() string
}

// StaticContext is a Context with fixed values, used by the CLI and tests.
type StaticContext struct {
	Mode      ExecutionMode
	Resources string
}

func (c StaticContext) ExecutionMode() ExecutionMode { return c.Mode }
func (c StaticContext) ResourcesDir() string         { return c.Resources }
