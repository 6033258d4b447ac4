// Package issue models structured validation failures.
//
// Validation in hdfsconn never throws for expected misconfiguration: each
// step records issues into an append-only List and keeps going where it
// safely can, so a caller sees every independent problem in one pass.
package issue

import "fmt"

// Code identifies a validation failure mode.
//
// Codes are stable identifiers: operators and the host pipeline's UI key off
// them, so two failure modes that look similar on the surface (for example a
// directory-creation denial versus a directory-creation error) keep distinct
// codes when they signal different remote-side conditions.
type Code string

const (
	// CodeRealmLookup: the default Kerberos realm could not be determined,
	// so the namenode principal could not be derived.
	CodeRealmLookup Code = "HDFS_28"

	// CodeConfDirAbsolute: an absolute configuration directory was given
	// under cluster execution, where local paths are meaningless.
	CodeConfDirAbsolute Code = "HDFS_45"

	// CodeConfDirMissing: the configuration directory does not exist.
	CodeConfDirMissing Code = "HDFS_25"

	// CodeConfDirNotDir: the configuration directory path is not a directory.
	CodeConfDirNotDir Code = "HDFS_26"

	// CodeConfFileIrregular: a site file exists but is not a regular file.
	CodeConfFileIrregular Code = "HDFS_27"

	// CodeConfFileUnreadable: a site file could not be read or parsed.
	CodeConfFileUnreadable Code = "HDFS_33"

	// CodeDefaultFSMissing: no URI, no configuration directory and no
	// fs.defaultFS entry; refusing to fall back to the local filesystem.
	CodeDefaultFSMissing Code = "HDFS_61"

	// CodeEntryEval: evaluating an explicit configuration entry's value
	// failed (for example an unresolved runtime expression).
	CodeEntryEval Code = "HDFS_62"

	// CodeURINoScheme: the explicit filesystem URI lacks a "://" scheme
	// separator.
	CodeURINoScheme Code = "HDFS_18"

	// CodeURIInvalid: the explicit filesystem URI does not parse.
	CodeURIInvalid Code = "HDFS_22"

	// CodeURIUnresolved: no filesystem URI could be resolved from any source.
	CodeURIUnresolved Code = "HDFS_49"

	// CodeAuthMismatch: Kerberos was requested but the login identity's
	// actual authentication method is something else.
	CodeAuthMismatch Code = "HDFS_00"

	// CodeConnect: opening the filesystem connection failed.
	CodeConnect Code = "HDFS_01"

	// CodeProxyUser: resolving the proxy (impersonated) identity failed.
	CodeProxyUser Code = "HDFS_30"

	// CodeDirNotAbsolute: a directory path template does not start with "/".
	CodeDirNotAbsolute Code = "HDFS_40"

	// CodeDirCreateDenied: the probe's directory creation was refused by the
	// remote filesystem (denied, not errored).
	CodeDirCreateDenied Code = "HDFS_41"

	// CodeDirCreateFailed: the probe's directory creation or cleanup errored.
	CodeDirCreateFailed Code = "HDFS_42"

	// CodeFileCreateFailed: the probe's marker file creation or cleanup
	// errored.
	CodeFileCreateFailed Code = "HDFS_43"

	// CodeProbeFailed: the probe failed before any filesystem operation
	// completed, typically in the identity switch itself.
	CodeProbeFailed Code = "HDFS_44"
)

var messages = map[Code]string{
	CodeRealmLookup:        "could not determine default Kerberos realm to derive the namenode principal: %s",
	CodeConfDirAbsolute:    "absolute configuration directory %q cannot be used under cluster execution",
	CodeConfDirMissing:     "configuration directory %q does not exist",
	CodeConfDirNotDir:      "configuration directory %q is not a directory",
	CodeConfFileIrregular:  "configuration file %q is not a regular file",
	CodeConfFileUnreadable: "configuration file %q could not be loaded: %s",
	CodeDefaultFSMissing:   "no filesystem URI, configuration directory or fs.defaultFS entry; refusing to default to the local filesystem",
	CodeEntryEval:          "could not evaluate configuration entry: %s",
	CodeURINoScheme:        "filesystem URI %q does not include a scheme (expected scheme://authority)",
	CodeURIInvalid:         "filesystem URI %q is invalid: %s",
	CodeURIUnresolved:      "filesystem URI is not set and could not be resolved from configuration",
	CodeAuthMismatch:       "Kerberos authentication requested but the login identity authenticated via %s",
	CodeConnect:            "could not connect to filesystem %q: %s",
	CodeProxyUser:          "could not impersonate user %q: %s",
	CodeDirNotAbsolute:     "directory path must be absolute (start with /)",
	CodeDirCreateDenied:    "filesystem refused to create a directory under %q",
	CodeDirCreateFailed:    "could not create a probe directory under %q: %s",
	CodeFileCreateFailed:   "could not create a probe file in %q: %s",
	CodeProbeFailed:        "permission probe failed: %s",
}

// Issue is a single structured validation failure.
type Issue struct {
	// Group is the configuration group the issue belongs to, matching the
	// host pipeline's configuration grouping (e.g. "HADOOP_FS").
	Group string

	// Field names the configuration field at fault, when one is
	// identifiable. May be empty for issues that span fields.
	Field string

	// Code identifies the failure mode.
	Code Code

	// Message is the rendered human-readable description.
	Message string
}

// New builds an Issue, rendering the code's message template with args.
func New(group, field string, code Code, args ...any) Issue {
	tmpl, ok := messages[code]
	if !ok {
		tmpl = "validation failed"
	}
	return Issue{
		Group:   group,
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(tmpl, args...),
	}
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("[%s] %s (%s/%s)", i.Code, i.Message, i.Group, i.Field)
	}
	return fmt.Sprintf("[%s] %s (%s)", i.Code, i.Message, i.Group)
}

// List is an ordered, append-only collection of issues.
//
// A nil *List is valid for reads and reports empty; writes require an
// allocated List.
type List struct {
	issues []Issue
}

// Add appends issues in order.
func (l *List) Add(issues ...Issue) {
	l.issues = append(l.issues, issues...)
}

// Addf builds an issue via New and appends it.
func (l *List) Addf(group, field string, code Code, args ...any) {
	l.Add(New(group, field, code, args...))
}

// Empty reports whether no issues have been recorded.
func (l *List) Empty() bool {
	return l == nil || len(l.issues) == 0
}

// Len returns the number of recorded issues.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.issues)
}

// All returns the recorded issues in insertion order. The returned slice is
// shared; callers must not mutate it.
func (l *List) All() []Issue {
	if l == nil {
		return nil
	}
	return l.issues
}
