package main

import "github.com/fiffeek/hyprautolayout/cmd"

func main() {
	cmd.Execute()
}
