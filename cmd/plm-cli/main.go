package main

import (
	"flag"
	"os"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/insteon-mqtt/helpers/cli"
	"github.com/temoto/insteon-mqtt/log2"
	"github.com/temoto/insteon-mqtt/plm"
)

const usage = `syntax: one command per line, hex bytes without 0x
(decode)
- 02XX...           feed bytes to stream decoder, show every frame
- parse 02XX...     decode exactly one frame, host or echo form
- kinds             list registered message codes

(build, send to modem when -device is set)
- info | getconfig | cancel | reset | first | next
- update CMD FLAGS GROUP ADDR [D1 D2 D3]
- send ADDR FLAGS CMD1 CMD2 [DATA...]   DATA with extended flag, checksum added
- link MODE GROUP
- groupsend GROUP CMD1 CMD2
- setconfig BYTE
- x10 RAW FLAG

(meta)
- log=yes  enable debug logging
- log=no   disable debug logging
`

var log = log2.NewStderr(log2.LDebug)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	devicePath := cmdline.String("device", "", "PLM serial device, empty to only encode/decode")
	baud := cmdline.Int("baud", plm.DefaultBaud, "")
	_ = cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)

	c := newCli(log, os.Stdout)
	if *devicePath != "" {
		uart, err := plm.OpenUart(*devicePath, *baud)
		if err != nil {
			log.Fatal(errors.ErrorStack(err))
		}
		defer uart.Close()
		c.sender = plm.NewWriter(uart, c.reg, c.log)
		a := alive.NewAlive()
		r := plm.NewReader(uart, c.reg, c.log)
		go func() {
			if err := r.Run(a, c.show); err != nil {
				log.Error(errors.ErrorStack(err))
			}
		}()
		defer a.Stop()
	}

	cli.MainLoop("plm-cli", c.exec, newCompleter())
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "parse", Description: "decode one frame"},
		{Text: "kinds", Description: "list message codes"},
		{Text: "info", Description: "0x60 get modem info"},
		{Text: "getconfig", Description: "0x73 get modem config"},
		{Text: "update", Description: "0x6f all-link db update"},
		{Text: "send", Description: "0x62 send insteon message"},
		{Text: "link", Description: "0x64 start all-linking"},
		{Text: "cancel", Description: "0x65 cancel all-linking"},
		{Text: "groupsend", Description: "0x61 all-link group command"},
		{Text: "setconfig", Description: "0x6b set modem config"},
		{Text: "x10", Description: "0x63 send x10"},
		{Text: "help", Description: "show usage"},
		{Text: "log=yes", Description: "enable debug logging"},
		{Text: "log=no", Description: "disable debug logging"},
	}

	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}
