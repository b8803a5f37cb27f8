package main

import (
	"log"

	"github.com/spigell/profile-guesser/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
