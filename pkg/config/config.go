package config

import (
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"
)

// FromFile loads the YAML configuration at filePath into cfg.
// Environment variables are substituted twice: once through the
// text/template fields of the file and once through $VAR expansion.
func FromFile(filePath string, cfg interface{}) error {
	envMap := make(map[string]string)
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		envMap[pair[0]] = pair[1]
	}

	t, err := template.ParseFiles(filePath)
	if err != nil {
		return err
	}
	strWriter := &strings.Builder{}
	err = t.Execute(strWriter, envMap)
	if err != nil {
		return err
	}

	content := os.ExpandEnv(strWriter.String())
	err = yaml.Unmarshal([]byte(content), cfg)
	return err
}
