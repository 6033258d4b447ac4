package dfs

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/colinmarc/hdfs/v2"

	"github.com/datafab/hdfsconn/pkg/hadoop"
	"github.com/datafab/hdfsconn/pkg/security"
)

// Open connects to HDFS at uri under the given identity.
//
// Client options are derived from the effective configuration first, then
// overridden by the URI's authority when present (an explicit URI wins over
// fs.defaultFS). Simple authentication sends the identity's username;
// Kerberos attaches the identity's ticket client and the namenode service
// principal from the configuration.
func Open(uri string, conf hadoop.Conf, id *security.Identity) (FileSystem, error) {
	opts := hdfs.ClientOptionsFromConf(conf.Hadoop())

	if u, err := url.Parse(uri); err == nil && u.Host != "" {
		// HA deployments list namenodes comma-separated in the authority.
		opts.Addresses = strings.Split(u.Host, ",")
	}
	if len(opts.Addresses) == 0 {
		return nil, fmt.Errorf("no namenode address in URI %q or configuration", uri)
	}

	if id.Method == security.Kerberos {
		opts.KerberosClient = id.Kerberos()
		if opts.KerberosServicePrincipleName == "" {
			opts.KerberosServicePrincipleName = servicePrincipal(conf)
		}
	} else {
		opts.User = id.Username
	}

	client, err := hdfs.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", strings.Join(opts.Addresses, ","), err)
	}
	return &hdfsFS{client: client}, nil
}

// servicePrincipal derives the SPN (e.g. "hdfs/_HOST") from the configured
// namenode principal, dropping the realm suffix the client library does
// not expect.
func servicePrincipal(conf hadoop.Conf) string {
	principal := conf.Get(hadoop.KeyNamenodePrincipal)
	if at := strings.IndexByte(principal, '@'); at >= 0 {
		principal = principal[:at]
	}
	return principal
}

// hdfsFS adapts *hdfs.Client to the FileSystem capability.
type hdfsFS struct {
	client *hdfs.Client
}

func (h *hdfsFS) Exists(path string) (bool, error) {
	_, err := h.client.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (h *hdfsFS) Mkdirs(path string) (bool, error) {
	err := h.client.MkdirAll(path, 0755)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrPermission) {
		// A clean refusal, not a transport failure. Reported separately
		// so operators can tell a permission denial from a flaky cluster.
		return false, nil
	}
	return false, err
}

func (h *hdfsFS) CreateEmpty(path string) error {
	return h.client.CreateEmptyFile(path)
}

func (h *hdfsFS) Delete(path string, recursive bool) error {
	if recursive {
		return h.client.RemoveAll(path)
	}
	return h.client.Remove(path)
}

func (h *hdfsFS) Close() error {
	return h.client.Close()
}
