// Command apiclient sends requests through the shared request pipeline.
package main

import (
	"os"

	"github.com/kbukum/apiclient/cli"
)

func main() {
	os.Exit(cli.Execute())
}
