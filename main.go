package main

import "daily-vibes-backend/cmd"

func main() {
	cmd.Run()
}
