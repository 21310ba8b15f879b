package main

import (
	"github.com/jsphweid/drumscribe/cmd"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver for listen
)

func main() {
	cmd.Execute()
}
