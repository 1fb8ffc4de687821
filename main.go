package main

import "github.com/Rorical/RoriAgent/cmd"

func main() {
	cmd.Execute()
}
