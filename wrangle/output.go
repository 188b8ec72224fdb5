package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"rsc.io/diff"

	"github.com/apparentlymart/instrinfo/instrinfo"
)

// output is one generated file.
type output struct {
	Filename string
	Data     []byte
}

// generate renders the outputs that cfg asks for. Unless check is set,
// Go source that fails to format is still written so it can be inspected.
func generate(cfg *Config, tables *instrinfo.Tables, check bool) ([]output, error) {
	goFile := cfg.outputFile(tables.TargetName)
	src, err := generateGo(tables, cfg.packageName(tables.TargetName), filepath.Base(cfg.Input))
	if err != nil {
		if src != nil && !check {
			if werr := writeOutputs([]output{{goFile, src}}); werr != nil {
				log.Printf("failed to keep the invalid source: %v", werr)
			}
		}
		return nil, err
	}
	outputs := []output{{goFile, src}}

	if cfg.Enums != "" {
		enums, err := generateEnums(tables)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, output{cfg.Enums, enums})
	}
	return outputs, nil
}

func writeOutputs(outputs []output) error {
	for _, out := range outputs {
		err := os.MkdirAll(filepath.Dir(out.Filename), os.ModePerm)
		if err != nil {
			return err
		}
		err = os.WriteFile(out.Filename, out.Data, 0644)
		if err != nil {
			return fmt.Errorf("failed to write %s: %v", out.Filename, err)
		}
	}
	return nil
}

// checkOutputs compares the outputs with the files already on disk,
// logging a diff for each one that is stale.
func checkOutputs(outputs []output) error {
	stale := 0
	for _, out := range outputs {
		have, err := os.ReadFile(out.Filename)
		if err != nil {
			log.Printf("%s: %v", out.Filename, err)
			stale++
			continue
		}
		if !bytes.Equal(have, out.Data) {
			log.Printf("%s is out of date:\n%s", out.Filename, diff.Format(string(have), string(out.Data)))
			stale++
		}
	}
	if stale > 0 {
		return fmt.Errorf("%d of %d generated files are out of date", stale, len(outputs))
	}
	return nil
}
