// Package dfs defines the filesystem capability the validator and probe
// call into, and its HDFS-backed implementation.
//
// The interface mirrors the small set of primitives the Hadoop FileSystem
// API exposes for access checking: exists, mkdirs, create, delete. Keeping
// it an interface lets validation logic run against a fake in tests and
// keeps the remote client swappable.
package dfs

import (
	"path"

	"github.com/datafab/hdfsconn/pkg/hadoop"
	"github.com/datafab/hdfsconn/pkg/security"
)

// FileSystem is an open handle to a remote filesystem. The handle is bound
// to the identity it was opened for; every operation executes as that
// identity on the remote side.
//
// Closing is the owner's responsibility. The validator that opens a handle
// never closes it, because the surrounding stage reuses it for its whole
// operational lifetime.
type FileSystem interface {
	// Exists reports whether the path exists.
	Exists(path string) (bool, error)

	// Mkdirs creates the directory and any missing parents. It returns
	// (false, nil) when the remote side refused the creation, and a
	// non-nil error for transport or other unexpected failures. The two
	// outcomes signal different remote conditions and are reported
	// under distinct issue codes.
	Mkdirs(path string) (bool, error)

	// CreateEmpty creates an empty file at path.
	CreateEmpty(path string) error

	// Delete removes path. With recursive set it removes directories and
	// their contents.
	Delete(path string, recursive bool) error

	// Close releases the handle.
	Close() error
}

// Parent returns the parent of an absolute path; the parent of "/" is "/".
func Parent(p string) string {
	return path.Dir(path.Clean(p))
}

// OpenFunc opens a FileSystem at uri with the given effective configuration
// and acting identity. Open is the production implementation; tests inject
// their own.
type OpenFunc = func(uri string, conf hadoop.Conf, id *security.Identity) (FileSystem, error)
