// Package cli runs line oriented tools interactively on tty or as filter on pipes.
package cli

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
)

func MainLoop(tag string, exec func(line string), complete func(d prompt.Document) []prompt.Suggest) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		for range signalCh {
			os.Exit(1)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(exec, complete,
			prompt.OptionTitle(tag),
			prompt.OptionPrefix(tag+"> "),
		).Run()
		return
	}
	if err := ExecLines(os.Stdin, exec); err != nil {
		os.Stderr.WriteString(errors.ErrorStack(err) + "\n")
		os.Exit(1)
	}
}

// ExecLines calls exec for every non empty trimmed line of r.
func ExecLines(r io.Reader, exec func(line string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		exec(line)
	}
	return errors.Annotate(scanner.Err(), "cli read")
}
