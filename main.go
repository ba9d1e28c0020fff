// Command nucleus is the CLI entry point for the kernel nucleus.
package main

import "nucleus/cmd"

func main() {
	cmd.Execute()
}
