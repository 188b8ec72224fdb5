package main

import (
	"fmt"
	"log"

	"github.com/apparentlymart/instrinfo/instrinfo"
	"github.com/apparentlymart/instrinfo/seqtable"
	"github.com/apparentlymart/instrinfo/tdesc"
)

func loadTables(filename string, logger *log.Logger) (*instrinfo.Tables, *tdesc.Schedule, error) {
	target, sched, err := tdesc.LoadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load target description: %s", err)
	}
	logger.Printf("loaded %d instructions and %d operand classes from %s", len(target.Instructions), len(target.OperandClasses), filename)

	tables, err := instrinfo.Compile(target, sched,
		instrinfo.WithLogger(logger),
		instrinfo.WithStringPool(seqtable.New()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile %s: %s", target.Name, err)
	}
	return tables, sched, nil
}
