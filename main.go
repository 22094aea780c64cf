package main

import "crewlink-backend/cmd"

func main() {
	cmd.Run()
}
