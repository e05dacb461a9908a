// Command weblog summarises web server access logs. Run "weblog help" for
// usage.
package main

import (
	"os"

	"github.com/bitfield/weblog/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
