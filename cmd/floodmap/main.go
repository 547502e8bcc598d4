// Command floodmap floods a maze file from its goals and prints the cost map and the path from home.
//
// Usage:
//
//	floodmap [-yaml] <mazefile>
//
// Files ending in .maz are read as binary images. Anything else is read as the text format.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/logger"
	"github.com/beka-birhanu/mazeflood/maze"
	"gopkg.in/yaml.v3"
)

var errUsage = errors.New("usage: floodmap [-yaml] <mazefile>")

// summary is the machine readable report printed with -yaml.
type summary struct {
	File     string   `yaml:"file"`
	Size     int      `yaml:"size"`
	Goals    []string `yaml:"goals"`
	Home     string   `yaml:"home"`
	Found    bool     `yaml:"found"`
	Steps    int      `yaml:"steps"`
	MaxCost  int      `yaml:"max_cost"`
	Enqueued int      `yaml:"enqueued"`
	Path     []string `yaml:"path,omitempty"`
}

func main() {
	log, err := logger.New("FLOODMAP", logger.ColorBlue, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("floodmap", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asYAML := fs.Bool("yaml", false, "print a YAML summary instead of the maps")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := load(path, data)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sol, err := flood.Solve(g, nil)
	if err != nil {
		return err
	}

	if *asYAML {
		return yaml.NewEncoder(out).Encode(summarize(path, g, sol))
	}

	fmt.Fprintln(out, g.String())
	fmt.Fprint(out, g.Text())
	fmt.Fprintln(out)
	fmt.Fprint(out, sol.Costs.String())
	fmt.Fprintln(out)
	if !sol.Found {
		fmt.Fprintln(out, "no path")
		return nil
	}
	fmt.Fprintf(out, "path: %d steps\n", sol.Steps())
	fmt.Fprint(out, sol.Render(g))
	return nil
}

func load(path string, data []byte) (*maze.Grid, error) {
	if strings.EqualFold(filepath.Ext(path), ".maz") {
		return maze.ParseBinary(data)
	}
	return maze.ParseText(bytes.NewReader(data))
}

func summarize(path string, g *maze.Grid, sol *flood.Solution) summary {
	s := summary{
		File:     filepath.Base(path),
		Size:     g.Size(),
		Home:     flood.HomeCell(g).String(),
		Found:    sol.Found,
		Steps:    sol.Steps(),
		MaxCost:  sol.Costs.MaxFinite(),
		Enqueued: sol.Costs.Enqueued(),
	}
	for _, c := range g.Goals() {
		s.Goals = append(s.Goals, c.String())
	}
	if sol.Found {
		for _, c := range sol.Path {
			s.Path = append(s.Path, c.String())
		}
	}
	return s
}
