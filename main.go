package main

import (
	"github.com/seqsense/plycrop/cmd"
)

func main() {
	cmd.Execute()
}
