package hadoop

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Hadoop site files use a fixed XML shape:
//
//	<configuration>
//	  <property>
//	    <name>fs.defaultFS</name>
//	    <value>hdfs://namenode:8020</value>
//	  </property>
//	</configuration>
type siteFile struct {
	Properties []siteProperty `xml:"property"`
}

type siteProperty struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

// loadSiteFile parses one Hadoop site XML file into a key/value map.
// Properties with an empty name are skipped; duplicate names keep the
// last occurrence, matching Hadoop's resource-loading behavior.
func loadSiteFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var sf siteFile
	if err := xml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	props := make(map[string]string, len(sf.Properties))
	for _, p := range sf.Properties {
		if p.Name == "" {
			continue
		}
		props[p.Name] = p.Value
	}
	return props, nil
}
