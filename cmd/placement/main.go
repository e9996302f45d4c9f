// Command placement is the command line front end of the placement hub.
package main

import "github.com/careerhub/placement-hub/internal/interface/cli"

func main() {
	cli.Execute()
}
