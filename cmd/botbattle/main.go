// Package main provides the botbattle command line tool, which validates
// authored content and simulates AI-versus-AI battles.
package main

import "github.com/cory-johannsen/botbattle/cmd/botbattle/cmd"

func main() {
	cmd.Execute()
}
