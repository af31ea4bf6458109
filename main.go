// Command edgelogin runs the wallet login flow in the terminal.
package main

import "edgelogin/internal/cli"

func main() {
	cli.Execute()
}
