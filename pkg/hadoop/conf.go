// Package hadoop builds the effective Hadoop client configuration for a
// stage's filesystem connection.
//
// The effective configuration is a flat key/value map assembled from four
// sources, later sources overriding earlier ones for the same key:
//
//  1. hard-coded safety defaults
//  2. Kerberos-related keys, when Kerberos is requested
//  3. core-site.xml / hdfs-site.xml loaded from a configuration directory
//  4. explicit per-key entries supplied by the stage configuration
//
// Expected misconfiguration never surfaces as an error: every problem is
// recorded as an issue and the build keeps going, so a caller sees all
// independent problems at once.
package hadoop

import (
	"os"
	"path/filepath"

	"github.com/colinmarc/hdfs/v2/hadoopconf"

	"github.com/datafab/hdfsconn/pkg/issue"
)

// Well-known Hadoop configuration keys.
const (
	KeyDefaultFS         = "fs.defaultFS"
	KeySecurityAuth      = "hadoop.security.authentication"
	KeyNamenodePrincipal = "dfs.namenode.kerberos.principal"
	KeyAutomaticClose    = "fs.automatic.close"
	KeyLocalFSImpl       = "fs.file.impl"
)

// Authentication method values for KeySecurityAuth.
const (
	AuthSimple   = "simple"
	AuthKerberos = "kerberos"
)

// rawLocalFSImpl forces the local-filesystem fallback to the unbuffered
// implementation. The checksummed wrapper keeps files open past close,
// which breaks the host's rename-on-teardown step.
const rawLocalFSImpl = "org.apache.hadoop.fs.RawLocalFileSystem"

// Site files loaded from the configuration directory, in load order.
var siteFiles = []string{"core-site.xml", "hdfs-site.xml"}

// Conf is the effective configuration. It is treated as immutable once
// returned from Build.
type Conf map[string]string

// Get returns the value for key, or "" when unset.
func (c Conf) Get(key string) string { return c[key] }

// Clone returns an independent copy.
func (c Conf) Clone() Conf {
	out := make(Conf, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Hadoop converts the configuration for use with the HDFS client's
// option derivation.
func (c Conf) Hadoop() hadoopconf.HadoopConf {
	return hadoopconf.HadoopConf(c)
}

// Valuer supplies a configuration value on demand. Evaluation can fail,
// for example when the value references an unresolved runtime secret.
type Valuer interface {
	Get() (string, error)
}

// Static is a Valuer for a plain string.
type Static string

// Get implements Valuer.
func (s Static) Get() (string, error) { return string(s), nil }

// Entry is one explicit configuration pair. Entries carry the highest
// precedence in the merged configuration.
type Entry struct {
	Key   string
	Value Valuer
}

// BuildRequest carries the inputs to Build.
type BuildRequest struct {
	// Kerberos requests Kerberos authentication keys in the output.
	Kerberos bool

	// URI is the explicit filesystem URI, possibly empty. Build does not
	// resolve it; it only needs to know whether one was supplied.
	URI string

	// ConfDir is the configuration directory holding site files. Relative
	// paths are resolved against ResourcesDir.
	ConfDir string

	// Entries are explicit key/value pairs, applied last.
	Entries []Entry

	// Cluster indicates distributed execution, where a directory path on
	// the submitting host cannot be honored.
	Cluster bool

	// ResourcesDir is the root for relative ConfDir paths.
	ResourcesDir string

	// Group and FieldPrefix scope recorded issues to the caller's
	// configuration layout.
	Group       string
	FieldPrefix string

	// Realm discovers the default Kerberos realm, used to derive the
	// namenode principal. Required when Kerberos is set.
	Realm func() (string, error)
}

// Build assembles the effective configuration, recording any problems into
// issues. The returned Conf is always usable, even when issues were found.
func Build(req BuildRequest, issues *issue.List) Conf {
	conf := Conf{
		// The stage owns the connection's lifetime; the client library must
		// not close it behind the stage's back during process shutdown.
		KeyAutomaticClose: "false",
		KeyLocalFSImpl:    rawLocalFSImpl,
	}

	if req.Kerberos {
		conf[KeySecurityAuth] = AuthKerberos
		realm, err := req.Realm()
		if err != nil {
			// Non-fatal when the principal is supplied explicitly.
			if !hasEntry(req.Entries, KeyNamenodePrincipal) {
				issues.Addf(req.Group, "", issue.CodeRealmLookup, err.Error())
			}
		} else {
			conf[KeyNamenodePrincipal] = "hdfs/_HOST@" + realm
		}
	}

	if req.ConfDir != "" {
		loadConfDir(req, conf, issues)
	} else if req.URI == "" && !hasEntry(req.Entries, KeyDefaultFS) {
		// No URI, no config dir, no fs.defaultFS entry. Defaulting to
		// file:/// would silently misroute writes to the local disk.
		issues.Addf(req.Group, req.FieldPrefix+"uri", issue.CodeDefaultFSMissing)
	}

	for _, e := range req.Entries {
		v, err := e.Value.Get()
		if err != nil {
			issues.Addf(req.Group, req.FieldPrefix+"extraConfig", issue.CodeEntryEval, err.Error())
			continue
		}
		conf[e.Key] = v
	}

	return conf
}

func loadConfDir(req BuildRequest, conf Conf, issues *issue.List) {
	field := req.FieldPrefix + "confDir"
	dir := req.ConfDir

	if req.Cluster && filepath.IsAbs(dir) {
		issues.Addf(req.Group, field, issue.CodeConfDirAbsolute, dir)
		return
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(req.ResourcesDir, dir)
	}

	fi, err := os.Stat(dir)
	if err != nil {
		issues.Addf(req.Group, field, issue.CodeConfDirMissing, dir)
		return
	}
	if !fi.IsDir() {
		issues.Addf(req.Group, field, issue.CodeConfDirNotDir, dir)
		return
	}

	for _, name := range siteFiles {
		path := filepath.Join(dir, name)
		fi, err := os.Stat(path)
		if err != nil {
			continue // site files are optional
		}

		regular := fi.Mode().IsRegular()
		if !regular {
			issues.Addf(req.Group, field, issue.CodeConfFileIrregular, path)
		}

		// Attempted even when irregular; a symlinked site file may still
		// resolve to readable XML.
		props, err := loadSiteFile(path)
		if err != nil {
			if regular {
				issues.Addf(req.Group, field, issue.CodeConfFileUnreadable, path, err.Error())
			}
			continue
		}
		for k, v := range props {
			conf[k] = v
		}
	}
}

func hasEntry(entries []Entry, key string) bool {
	for _, e := range entries {
		if e.Key == key {
			return true
		}
	}
	return false
}
