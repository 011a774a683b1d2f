// # cmd/depmap/main.go
package main

import "depmap/cmd/depmap/cmd"

func main() {
	cmd.Execute()
}
