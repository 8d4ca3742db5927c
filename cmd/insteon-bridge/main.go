package main

import (
	"expvar"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/insteon-mqtt/config"
	"github.com/temoto/insteon-mqtt/helpers"
	"github.com/temoto/insteon-mqtt/log2"
	"github.com/temoto/insteon-mqtt/message"
	"github.com/temoto/insteon-mqtt/mqtt"
	"github.com/temoto/insteon-mqtt/plm"
)

var log = log2.NewStderr(log2.LDebug)

var (
	statRx = expvar.NewInt("plm_rx_bytes")
	statTx = expvar.NewInt("plm_tx_bytes")
)

func main() {
	flagConfig := flag.String("config", "insteon-mqtt.hcl", "")
	flag.Parse()

	if sdnotify("start") {
		// we're under systemd, assume systemd journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	cfg := config.MustReadConfig(log, config.NewOsFullReader(), *flagConfig)
	if !cfg.LogDebug {
		log.SetLevel(log2.LInfo)
	}
	log.Debugf("config=%+v", cfg)

	plmLog := log.Clone(log2.LInfo)
	if cfg.Plm.LogDebug {
		plmLog.SetLevel(log2.LDebug)
	}
	mqttLog := log.Clone(log2.LInfo)
	if cfg.Mqtt.LogDebug {
		mqttLog.SetLevel(log2.LDebug)
	}
	mqtt.SetPahoLog(mqttLog, cfg.Mqtt.LogDebug)

	uart, err := plm.OpenUart(cfg.Plm.Device, cfg.Plm.Baud)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	reg := message.DefaultRegistry()
	reader := plm.NewReader(helpers.NewStatReader(uart, statRx), reg, plmLog)
	writer := plm.NewWriter(helpers.NewStatWriter(uart, statTx), reg, plmLog)
	bridge := mqtt.NewBridge(mqttLog, cfg.Mqtt, reg, writer)
	if err = bridge.Start(); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	a := alive.NewAlive()
	var runErr helpers.AtomicError
	go func() {
		if err := reader.Run(a, bridge.Publish); err != nil {
			runErr.StoreOnce(err)
		}
		a.Stop()
	}()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			log.Infof("signal=%v stopping", s)
			a.Stop()
		case <-a.StopChan():
		}
	}()

	sdnotify(daemon.SdNotifyReady)
	log.Infof("running device=%s broker=%s", cfg.Plm.Device, cfg.Mqtt.Broker)

	<-a.StopChan()
	sdnotify(daemon.SdNotifyStopping)
	bridge.Stop()
	// unblocks reader
	uart.Close()
	a.Wait()

	st := reader.Stats()
	log.Infof("stopped frames=%d dropped=%d unknown=%d invalid=%d rx_bytes=%d tx_bytes=%d",
		st.Frames, st.Dropped, st.Unknown, st.Invalid, statRx.Value(), statTx.Value())
	if err, ok := runErr.Load(); ok {
		log.Fatal(errors.ErrorStack(err))
	}
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
