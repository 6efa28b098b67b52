package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"github.com/dtgillespie/llrp-client/config"
	"github.com/dtgillespie/llrp-client/session"
)

var replCommands = []string{
	"capabilities", "get_config", "set_config", "add_rospec", "enable_rospec",
	"start_rospec", "stop_rospec", "delete_rospec", "keepalive", "quit",
}

// runRepl drops into an interactive shell over sess, one verb per typed
// command, in the style of the minimega client's Attach loop.
func runRepl(sess *session.Session, cfg *config.Config) int {
	fmt.Println("connected; type a verb name or 'quit' to exit")

	events, cancel := sess.Events()
	defer cancel()
	go func() {
		for ev := range events {
			if ev.Payload.ConnCloseSeen {
				fmt.Println("reader reported connection close")
			}
		}
	}()

	input := liner.NewLiner()
	defer input.Close()
	input.SetCtrlCAborts(true)
	input.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range replCommands {
			if strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
		return out
	})

	for {
		line, err := input.Prompt("llrpclient> ")
		if err == liner.ErrPromptAborted {
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		input.AppendHistory(line)

		if line == "quit" {
			break
		}

		if err := dispatchReplCommand(sess, cfg, line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}

	return 0
}

func dispatchReplCommand(sess *session.Session, cfg *config.Config, line string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fields := strings.Fields(line)
	verb := fields[0]

	switch verb {
	case "keepalive":
		_, err := sess.Keepalive(ctx)
		return err
	case "capabilities":
		caps, err := sess.GetReaderCapabilities(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", caps)
	case "get_config":
		resp, err := sess.GetReaderConfig(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", resp)
	case "set_config":
		_, err := sess.SetReaderConfig(ctx, cfg.ReaderConfig)
		return err
	case "add_rospec":
		_, err := sess.AddROSpec(ctx, cfg.ROSpec)
		return err
	case "enable_rospec":
		_, err := sess.EnableROSpec(ctx, cfg.ROSpec.ROSpecID)
		return err
	case "start_rospec":
		_, err := sess.StartROSpec(ctx, cfg.ROSpec.ROSpecID)
		return err
	case "stop_rospec":
		_, err := sess.StopROSpec(ctx, cfg.ROSpec.ROSpecID)
		return err
	case "delete_rospec":
		id := cfg.ROSpec.ROSpecID
		if len(fields) > 1 {
			parsed, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				return err
			}
			id = uint32(parsed)
		}
		_, err := sess.DeleteROSpec(ctx, id)
		return err
	default:
		return fmt.Errorf("unknown command %q", verb)
	}

	logrus.StandardLogger().Debugf("ran %q", verb)
	return nil
}
