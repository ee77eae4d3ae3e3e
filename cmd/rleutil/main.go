// Command rleutil drives a github.com/dvbrcs2/rle Transmitter or Receiver
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/dvbrcs2/rle/cmd/rleutil/commands"
)

func main() {
	if err := commands.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
