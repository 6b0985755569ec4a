// The main package for the provoke executable.
package main

import (
	"github.com/pybash1/provoke/cmd"
)

func main() {
	cmd.Execute()
}
