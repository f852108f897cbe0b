package main

import (
	"github.com/manualhttp/manualhttp-go-client/cmd"
)

func main() {
	cmd.Execute()
}
