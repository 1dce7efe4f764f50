package main

import "github.com/user/shieldagent/cmd"

func main() {
	cmd.Execute()
}
