package hadoop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core-site.xml")
	content := `<?xml version="1.0"?>
<configuration>
  <property>
    <name>fs.defaultFS</name>
    <value>hdfs://namenode:8020</value>
  </property>
  <property>
    <name>hadoop.security.authentication</name>
    <value>kerberos</value>
  </property>
  <property>
    <name></name>
    <value>ignored</value>
  </property>
  <property>
    <name>dup</name>
    <value>first</value>
  </property>
  <property>
    <name>dup</name>
    <value>second</value>
  </property>
</configuration>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	props, err := loadSiteFile(path)
	require.NoError(t, err)

	assert.Equal(t, "hdfs://namenode:8020", props["fs.defaultFS"])
	assert.Equal(t, "kerberos", props["hadoop.security.authentication"])
	assert.NotContains(t, props, "", "empty property names are skipped")
	assert.Equal(t, "second", props["dup"], "last occurrence wins")
}

func TestLoadSiteFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadSiteFile(filepath.Join(t.TempDir(), "absent.xml"))
		assert.Error(t, err)
	})

	t.Run("malformed xml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.xml")
		require.NoError(t, os.WriteFile(path, []byte("<configuration><property>"), 0644))
		_, err := loadSiteFile(path)
		assert.Error(t, err)
	})
}
