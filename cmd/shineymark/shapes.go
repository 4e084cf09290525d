package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/shineymark/internal/clipboard"
	"github.com/example/shineymark/internal/shape"
)

var (
	readShapesFn  = clipboard.ReadShapes
	writeShapesFn = clipboard.WriteShapes
)

// shapesCmd validates or pretty-prints a shape list.
type shapesCmd struct {
	op            string
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	stdout        io.Writer
	*root
	fs *flag.FlagSet
}

func (s *shapesCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *shapesCmd) Program() string {
	return s.root.subProgram("shapes")
}

func parseShapesCmd(args []string, r *root) (*shapesCmd, error) {
	fs := flag.NewFlagSet("shapes", flag.ExitOnError)
	s := &shapesCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.file, "file", "", "shape list file")
	fs.StringVar(&s.output, "output", "", "write formatted shapes here instead of stdout")
	fs.BoolVar(&s.fromClipboard, "from-clipboard", false, "read the shape list from the clipboard")
	fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the formatted shape list to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: s}
	}
	s.op = fs.Arg(0)
	switch s.op {
	case "validate", "format":
	default:
		return nil, &UsageError{of: s}
	}
	if (s.file == "") == !s.fromClipboard {
		return nil, fmt.Errorf("exactly one of -file or -from-clipboard is required")
	}
	return s, nil
}

func (s *shapesCmd) read() ([]shape.Shape, error) {
	if s.fromClipboard {
		return readShapesFn()
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		return nil, err
	}
	list, err := shape.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.file, err)
	}
	return list, nil
}

func (s *shapesCmd) Run() error {
	list, err := s.read()
	if err != nil {
		return err
	}
	if s.op == "validate" {
		fmt.Fprintf(s.stdout, "%d shapes ok\n", len(list))
		return nil
	}
	data, err := shape.MarshalIndent(list)
	if err != nil {
		return err
	}
	if s.toClipboard {
		if err := writeShapesFn(list); err != nil {
			return fmt.Errorf("failed to copy shapes: %w", err)
		}
		s.notifyCopy(fmt.Sprintf("%d shapes", len(list)))
	}
	if s.output != "" {
		if err := os.WriteFile(s.output, append(data, '\n'), 0o644); err != nil {
			return err
		}
		s.notifySave(s.output)
		return nil
	}
	if s.toClipboard {
		return nil
	}
	_, err = fmt.Fprintf(s.stdout, "%s\n", data)
	return err
}
