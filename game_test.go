package main

import (
	"path/filepath"
	"testing"
)

func TestSameConfigFile(t *testing.T) {
	cases := []struct {
		name   string
		event  string
		config string
		want   bool
	}{
		{"identical", "cellfill.yaml", "cellfill.yaml", true},
		{"dot_slash_event", "./cellfill.yaml", "cellfill.yaml", true},
		{"dot_slash_config", "cellfill.yaml", "./cellfill.yaml", true},
		{"nested_path", filepath.Join("conf", "cellfill.yaml"), "conf/cellfill.yaml", true},
		{"other_file", "theme.yaml", "cellfill.yaml", false},
		{"same_name_other_dir", "other/cellfill.yaml", "conf/cellfill.yaml", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sameConfigFile(c.event, c.config); got != c.want {
				t.Fatalf("sameConfigFile(%q, %q) = %v, want %v", c.event, c.config, got, c.want)
			}
		})
	}
}
