// Command llrpclient drives an LLRP reader over TCP: connecting, pushing
// the configured reader config and ROSpec, and streaming tag reports,
// either as a one-shot run or an interactive shell.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/dtgillespie/llrp-client/adminapi"
	"github.com/dtgillespie/llrp-client/config"
	"github.com/dtgillespie/llrp-client/session"
)

const version = "0.1.0"

var (
	app = kingpin.New("llrpclient", "A client for the LLRP (Low Level Reader Protocol) RFID wire protocol.")

	configPath = app.Flag("config", "Path to the client configuration JSON document.").Short('c').Default("config.json").String()
	adminAddr  = app.Flag("admin-addr", "Address for the optional HTTP admin surface (empty disables it).").Default("").String()

	run  = app.Command("run", "Connect, run the configured ROSpec once, and print reports until interrupted.")
	repl = app.Command("repl", "Connect and drop into an interactive shell.")
)

func main() {
	app.Version(version)
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llrpclient: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	if cfg.IsLogOff() {
		log.SetOutput(io.Discard)
	} else {
		log.SetLevel(cfg.LogrusLevel())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ResponseTimeout())
	defer cancel()

	sess, err := session.Dial(ctx, session.Config{
		Host:            cfg.Host,
		ResponseTimeout: cfg.ResponseTimeout(),
		LogResponseAck:  cfg.LogResponseAck,
		Logger:          log,
	})
	if err != nil {
		log.WithError(err).Error("llrpclient: connect failed")
		os.Exit(1)
	}
	defer sess.Close()

	if *adminAddr != "" {
		srv := adminapi.New(sess, cfg.ROSpec)
		go func() {
			if err := srv.Run(*adminAddr); err != nil {
				log.WithError(err).Warn("llrpclient: admin surface exited")
			}
		}()
	}

	switch cmd {
	case run.FullCommand():
		os.Exit(runOnce(sess, cfg))
	case repl.FullCommand():
		os.Exit(runRepl(sess, cfg))
	}
}

// runOnce drives the happy-path sequence (spec.md §8 scenario A) once:
// delete-all, set-config, enable-events, add, enable, start, then prints
// reports until the report stream closes (the session disconnects). It does
// not send StopROSpec, and because main exits through os.Exit the deferred
// sess.Close (and its CloseConnection) does not run either.
func runOnce(sess *session.Session, cfg *config.Config) int {
	log := logrus.StandardLogger()
	ctx := context.Background()

	if _, err := sess.DeleteROSpec(ctx, 0); err != nil {
		log.WithError(err).Error("delete_rospec failed")
		return 2
	}
	if _, err := sess.SetReaderConfig(ctx, cfg.ReaderConfig); err != nil {
		log.WithError(err).Error("set_reader_config failed")
		return 2
	}
	if err := sess.EnableEventsAndReports(); err != nil {
		log.WithError(err).Error("enable_events_and_reports failed")
		return 2
	}
	if _, err := sess.AddROSpec(ctx, cfg.ROSpec); err != nil {
		log.WithError(err).Error("add_rospec failed")
		return 2
	}
	if _, err := sess.EnableROSpec(ctx, cfg.ROSpec.ROSpecID); err != nil {
		log.WithError(err).Error("enable_rospec failed")
		return 2
	}
	if _, err := sess.StartROSpec(ctx, cfg.ROSpec.ROSpecID); err != nil {
		log.WithError(err).Error("start_rospec failed")
		return 2
	}

	reports, cancel := sess.Reports()
	defer cancel()
	for event := range reports {
		if event.Lagged > 0 {
			log.Warnf("dropped %d reports before this one", event.Lagged)
		}
		for _, tag := range event.Payload.TagReports {
			fmt.Printf("tag: %s\n", tag.EPCHex)
		}
	}

	return 0
}
