package main

import "github.com/tsiemens/fxreport/cmd"

func main() {
	cmd.Execute()
}
