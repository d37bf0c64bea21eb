// Command execfs presents a directory of synthetic files backed by shell
// commands, mounted into the host filesystem via FUSE.
package main

import (
	"os"

	"github.com/Smattr/execfs/cmd"
)

func main() {
	cmd.Execute(os.Args[1:])
}
