package stage

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/datafab/hdfsconn/internal/logger"
	"github.com/datafab/hdfsconn/pkg/dfs"
	"github.com/datafab/hdfsconn/pkg/issue"
)

// markerPrefix names the disposable probe artifacts. The random suffix
// keeps concurrent probes and leftovers from crashed runs from colliding.
const markerPrefix = "_canary-"

// ProbeDir verifies that dir is writable by the acting identity with a
// non-destructive canary: when the directory exists, a marker file is
// created in it and removed; when it does not, one marker directory is
// created under the nearest existing ancestor and removed recursively.
// Creating deeper paths would litter the tree, so the probe never does.
//
// Issues are recorded under the given group and field. Returns false as
// soon as the directory cannot be probed or proves unwritable.
func (c *Conn) ProbeDir(group, field, dir string, issues *issue.List) bool {
	if dir == "" {
		dir = "/"
	}
	if !strings.HasPrefix(dir, "/") {
		issues.Addf(group, field, issue.CodeDirNotAbsolute)
		probeFailures.WithLabelValues(string(issue.CodeDirNotAbsolute)).Inc()
		return false
	}

	ok := true
	fail := func(code issue.Code, args ...any) {
		issues.Addf(group, field, code, args...)
		probeFailures.WithLabelValues(string(code)).Inc()
		ok = false
	}

	err := c.runProbe(dir, fail)
	if err != nil {
		// The probe never got far enough to report a specific failure;
		// typically the identity switch or the existence check broke.
		fail(issue.CodeProbeFailed, err.Error())
	}
	return ok
}

func (c *Conn) runProbe(dir string, fail func(issue.Code, ...any)) error {
	if c.fs == nil {
		return fmt.Errorf("no open filesystem handle; validation must succeed first")
	}

	// The probe must reflect what the pipeline's actual write identity can
	// do, not the login identity's broader rights.
	return c.acting.Do(func() error {
		exists, err := c.fs.Exists(dir)
		if err != nil {
			return err
		}

		marker := markerPrefix + uuid.NewString()
		if exists {
			probePath := path.Join(dir, marker)
			if err := c.fs.CreateEmpty(probePath); err != nil {
				fail(issue.CodeFileCreateFailed, dir, err.Error())
				return nil
			}
			if err := c.fs.Delete(probePath, false); err != nil {
				fail(issue.CodeFileCreateFailed, dir, err.Error())
				return nil
			}
			return nil
		}

		// Walk up to the nearest existing ancestor; the root always
		// exists, so the walk is bounded.
		ancestor := dfs.Parent(dir)
		for ancestor != "/" {
			found, err := c.fs.Exists(ancestor)
			if err != nil {
				return err
			}
			if found {
				break
			}
			ancestor = dfs.Parent(ancestor)
		}

		probePath := path.Join(ancestor, marker)
		created, err := c.fs.Mkdirs(probePath)
		if err != nil {
			fail(issue.CodeDirCreateFailed, ancestor, err.Error())
			return nil
		}
		if !created {
			// Refused, not errored: usually a permission denial rather
			// than a transient cluster problem.
			fail(issue.CodeDirCreateDenied, ancestor)
			return nil
		}
		logger.Info("created probe directory", "path", probePath, "user", c.acting.Username)
		if err := c.fs.Delete(probePath, true); err != nil {
			fail(issue.CodeDirCreateFailed, ancestor, err.Error())
		}
		return nil
	})
}
