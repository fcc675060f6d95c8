package main

import (
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
