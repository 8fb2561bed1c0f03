package cmd

import (
	"errors"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// TargetConfig is one entry of sqlqc.yaml's targets list: which backend to
// generate against, which Go package the output belongs to, where to write
// it, and (only for "go-sqlx") which inner driver name to bind placeholders
// for.
type TargetConfig struct {
	Target     string `yaml:"target"`
	Package    string `yaml:"package"`
	Out        string `yaml:"out"`
	SqlxDriver string `yaml:"sqlxDriver,omitempty"`
}

// Config is the shape of sqlqc.yaml, generalized from the reference
// corpus's own per-environment sqlcode.yaml (cli/cmd/config.go) but with no
// database connection entries — this tool never opens a live connection,
// it only reads *.sql files and writes Go source.
type Config struct {
	Targets []TargetConfig `yaml:"targets"`
}

// LoadConfig reads sqlqc.yaml from --directory.
func LoadConfig() (Config, error) {
	var result Config

	configFilename := path.Join(directory, "sqlqc.yaml")
	if _, err := os.Stat(configFilename); os.IsNotExist(err) {
		return Config{}, errors.New("no sqlqc.yaml found in " + directory)
	}

	yamlFile, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(yamlFile, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}
