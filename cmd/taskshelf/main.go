// Command taskshelf is a local-first task list with folder sync.
package main

import "github.com/mesh-intelligence/taskshelf/internal/cli"

func main() {
	cli.Execute()
}
