// The main package for the harvester executable.
package main

import "github.com/odmbench/harvester/cmd"

func main() {
	cmd.Execute()
}
