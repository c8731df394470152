package main

import (
	"fmt"
	"os"

	"github.com/psaab/jprune/pkg/config"
)

// loadGraph parses the common sources and the primary source into a
// fresh dependency graph. Any unreadable file is fatal before anything
// has been written.
func loadGraph(primary string, commons []string) (*config.Graph, error) {
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	var sources []config.Source
	for _, path := range commons {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("common source: %w", err)
		}
		files = append(files, f)
		sources = append(sources, config.Source{Name: path, Common: true, Input: f})
	}
	f, err := os.Open(primary)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	files = append(files, f)
	sources = append(sources, config.Source{Name: primary, Input: f})

	g := config.NewGraph()
	if err := config.NewParser(g).Parse(sources); err != nil {
		return nil, err
	}
	return g, nil
}
