package main

import (
	"os"

	"github.com/nhle/blocked-report/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
