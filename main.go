package main

import "github.com/iksnae/chat-widget/cmd"

func main() {
	cmd.Execute()
}
