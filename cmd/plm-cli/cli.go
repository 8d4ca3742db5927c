package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/insteon"
	"github.com/temoto/insteon-mqtt/log2"
	"github.com/temoto/insteon-mqtt/message"
	"github.com/temoto/insteon-mqtt/plm"
)

type plmCli struct {
	log    *log2.Log
	reg    *message.Registry
	out    io.Writer
	stream *plm.Reader
	sender plm.Sender
}

func newCli(log *log2.Log, out io.Writer) *plmCli {
	reg := message.DefaultRegistry()
	return &plmCli{
		log:    log,
		reg:    reg,
		out:    out,
		stream: plm.NewReader(nil, reg, log),
	}
}

func (self *plmCli) exec(line string) {
	if err := self.run(line); err != nil {
		self.log.Error(errors.ErrorStack(err))
	}
}

// show prints raw frame bytes, host form of m when raw is empty.
func (self *plmCli) show(m message.Message, raw []byte) {
	if len(raw) == 0 {
		raw = m.Encode()
	}
	fmt.Fprintf(self.out, "%s  %s\n", message.Format(raw), m.String())
}

func (self *plmCli) run(line string) error {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(words[0]), words[1:]
	if strings.HasPrefix(cmd, "02") || strings.HasPrefix(cmd, "0x") {
		return self.feed(line)
	}

	var m message.Message
	var err error
	switch cmd {
	case "help", "?":
		fmt.Fprint(self.out, usage)
		return nil
	case "log=yes":
		self.log.SetLevel(log2.LDebug)
		return nil
	case "log=no":
		self.log.SetLevel(log2.LError)
		return nil
	case "kinds":
		for _, code := range self.reg.Codes() {
			k, _ := self.reg.Kind(code)
			fmt.Fprintf(self.out, "%s %-16s command=%t\n", code.Hex(), k.Name, k.IsCommand())
		}
		return nil
	case "parse":
		b, err := message.ParseHex(strings.Join(args, ""))
		if err != nil {
			return errors.Annotate(err, "parse hex")
		}
		if m, err = self.reg.Parse(b); err != nil {
			return err
		}
		self.show(m, b)
		return nil

	case "info":
		m = message.NewGetInfo()
	case "getconfig":
		m = message.NewGetConfig()
	case "cancel":
		m, err = message.NewModemCommand(message.CodeCancelAllLink)
	case "reset":
		m, err = message.NewModemCommand(message.CodeResetModem)
	case "first":
		m, err = message.NewModemCommand(message.CodeGetFirstAllLink)
	case "next":
		m, err = message.NewModemCommand(message.CodeGetNextAllLink)
	case "update":
		m, err = buildUpdate(args)
	case "send":
		m, err = buildSend(args)
	case "link":
		m, err = buildLink(args)
	case "groupsend":
		var bs []byte
		if bs, err = parseBytes(args, 3, 3); err == nil {
			m = message.NewAllLinkSend(bs[0], bs[1], bs[2])
		}
	case "setconfig":
		var bs []byte
		if bs, err = parseBytes(args, 1, 1); err == nil {
			m = message.NewSetConfig(bs[0])
		}
	case "x10":
		var bs []byte
		if bs, err = parseBytes(args, 2, 2); err == nil {
			m, err = message.NewX10Send(bs[0], bs[1])
		}
	default:
		return errors.NotFoundf("command=%s, try help", cmd)
	}
	if err != nil {
		return errors.Annotatef(err, "%s", cmd)
	}
	self.show(m, nil)
	if self.sender != nil {
		return self.sender.Send(m)
	}
	return nil
}

func (self *plmCli) feed(line string) error {
	b, err := message.ParseHex(line)
	if err != nil {
		return errors.Annotate(err, "decode hex")
	}
	before := self.stream.Stats()
	self.stream.Feed(b, self.show)
	after := self.stream.Stats()
	if n := self.stream.Buffered(); n > 0 {
		fmt.Fprintf(self.out, "buffered=%d waiting for more\n", n)
	}
	if d := after.Dropped - before.Dropped; d > 0 {
		fmt.Fprintf(self.out, "dropped=%d unknown=%d invalid=%d\n",
			d, after.Unknown-before.Unknown, after.Invalid-before.Invalid)
	} else if after.Invalid > before.Invalid {
		fmt.Fprintf(self.out, "invalid=%d\n", after.Invalid-before.Invalid)
	}
	return nil
}

func parseByte(s string) (byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	x, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, errors.NotValidf("byte=%s", s)
	}
	return byte(x), nil
}

func parseBytes(args []string, min, max int) ([]byte, error) {
	if len(args) < min || len(args) > max {
		return nil, errors.NotValidf("arguments count=%d expected %d..%d", len(args), min, max)
	}
	bs := make([]byte, len(args))
	for i, a := range args {
		b, err := parseByte(a)
		if err != nil {
			return nil, err
		}
		bs[i] = b
	}
	return bs, nil
}

// update CMD FLAGS GROUP ADDR [D1 D2 D3]
func buildUpdate(args []string) (message.Message, error) {
	if len(args) != 4 && len(args) != 7 {
		return nil, errors.NotValidf("update arguments count=%d", len(args))
	}
	bs, err := parseBytes(args[:3], 3, 3)
	if err != nil {
		return nil, err
	}
	addr, err := insteon.ParseAddress(args[3])
	if err != nil {
		return nil, err
	}
	var data []byte
	if len(args) == 7 {
		if data, err = parseBytes(args[4:], 3, 3); err != nil {
			return nil, err
		}
	}
	return message.NewAllLinkUpdate(message.AllLinkUpdateCmd(bs[0]), insteon.DbFlags(bs[1]), bs[2], addr, data)
}

// send ADDR FLAGS CMD1 CMD2 [DATA...]
func buildSend(args []string) (message.Message, error) {
	if len(args) < 4 {
		return nil, errors.NotValidf("send arguments count=%d", len(args))
	}
	addr, err := insteon.ParseAddress(args[0])
	if err != nil {
		return nil, err
	}
	bs, err := parseBytes(args[1:], 3, 3+message.ExtendedDataSize)
	if err != nil {
		return nil, err
	}
	flags := insteon.MsgFlags(bs[0])
	if !flags.IsExtended() {
		if len(bs) != 3 {
			return nil, errors.NotValidf("send data with standard flags=%02x", bs[0])
		}
		return message.NewSendStandard(addr, flags, bs[1], bs[2])
	}
	// short data is zero padded, last byte is checksum anyway
	data := make([]byte, message.ExtendedDataSize)
	copy(data, bs[3:])
	m, err := message.NewSendExtended(addr, flags, bs[1], bs[2], data)
	if err != nil {
		return nil, err
	}
	return m.WithChecksum(), nil
}

// link MODE GROUP
func buildLink(args []string) (message.Message, error) {
	bs, err := parseBytes(args, 2, 2)
	if err != nil {
		return nil, err
	}
	return message.NewStartAllLink(message.LinkMode(bs[0]), bs[1])
}
