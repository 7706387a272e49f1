// Command trackviz renders positionfixes, staypoints and triplegs to PNG or a
// terminal map viewer, optionally over an OpenStreetMap street basemap.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
