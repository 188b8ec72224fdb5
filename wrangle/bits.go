package main

import (
	"fmt"
)

type bits32 uint32
type bits64 uint64

func (v bits32) String() string {
	return fmt.Sprintf("%#x", uint32(v))
}

func (v bits64) String() string {
	return fmt.Sprintf("%#x", uint64(v))
}
