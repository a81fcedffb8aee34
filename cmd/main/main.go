package main

import "github.com/Another0Noob/hearth-import/cmd"

func main() {
	cmd.Execute()
}
