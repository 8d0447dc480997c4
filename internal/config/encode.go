package config

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Logging    LoggingConfig   `yaml:"logging"`
	Metrics    yamlMetrics     `yaml:"metrics"`
	Disk       yamlDisk        `yaml:"disk"`
	Processes  []yamlProcess   `yaml:"processes"`
	Operations []yamlOperation `yaml:"operations"`
}

type yamlMetrics struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile,omitempty"`
}

type yamlDisk struct {
	Strategy   string        `yaml:"strategy"`
	BlockCount int           `yaml:"block_count"`
	Preload    []yamlPreload `yaml:"preload,omitempty"`
}

type yamlPreload struct {
	Name  string `yaml:"name"`
	Start int    `yaml:"start"`
	Size  int    `yaml:"size"`
}

type yamlProcess struct {
	ID       int `yaml:"id"`
	Priority int `yaml:"priority"`
	Quota    int `yaml:"quota"`
}

type yamlOperation struct {
	Process int    `yaml:"process"`
	Kind    string `yaml:"kind"`
	File    string `yaml:"file"`
	Size    int    `yaml:"size,omitempty"`
}

// Encode writes cfg as a YAML document that Load reads back.
func Encode(cfg *Config, w io.Writer) error {
	doc := yamlDocument{
		Logging: cfg.Logging,
		Metrics: yamlMetrics{Enabled: cfg.Metrics.Enabled, Textfile: cfg.Metrics.Textfile},
		Disk: yamlDisk{
			Strategy:   strategyName(cfg),
			BlockCount: cfg.Disk.BlockCount,
		},
	}
	for _, p := range cfg.Disk.Preload {
		doc.Disk.Preload = append(doc.Disk.Preload, yamlPreload(p))
	}
	for _, p := range cfg.Processes {
		doc.Processes = append(doc.Processes, yamlProcess(p))
	}
	for _, o := range cfg.Operations {
		kind := o.Kind.String()
		if kind == "unknown" {
			kind = strconv.Itoa(int(o.Kind))
		}
		doc.Operations = append(doc.Operations, yamlOperation{
			Process: o.Process,
			Kind:    kind,
			File:    o.File,
			Size:    o.Size,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return errors.WithStack(enc.Close())
}

func strategyName(cfg *Config) string {
	if name := cfg.Disk.Strategy.String(); name != "unknown" {
		return name
	}
	return strconv.Itoa(int(cfg.Disk.Strategy))
}
