package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	streamio "github.com/usherasnick/feed-reader/stream-io"
	"github.com/usherasnick/feed-reader/tpsctrl"
	zipfeed "github.com/usherasnick/feed-reader/zip-feed"
)

var (
	lines   bool
	archive string
	rate    int64
	debug   bool
)

var mainCommand = &cobra.Command{
	Use:   "feedcat [chunk...]",
	Short: "concatenate chunks through a chunk feed reader to stdout",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
	RunE: run,
}

func init() {
	mainCommand.Flags().BoolVarP(&lines, "lines", "l", false, "terminate every chunk with a newline")
	mainCommand.Flags().StringVarP(&archive, "zip", "z", "", "read chunks from the members of a zip archive")
	mainCommand.Flags().Int64VarP(&rate, "rate", "r", 0, "limit output to bytes per second")
	mainCommand.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "enable debug log")
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		log.Fatal().Err(err).Msg("feedcat failed")
	}
}

func checkFlags(archive string, lines bool, args []string) error {
	if archive == "" {
		return nil
	}
	if lines {
		return errors.New("--lines cannot be combined with --zip")
	}
	if len(args) > 0 {
		return fmt.Errorf("--zip takes no chunk arguments, got %d", len(args))
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	if err := checkFlags(archive, lines, args); err != nil {
		return err
	}

	var producer streamio.FallibleProducer[[]byte]
	if archive != "" {
		a, err := zipfeed.Open(archive)
		if err != nil {
			return err
		}
		defer a.Close()
		producer = a.Producer()
	} else {
		producer = argsProducer(args, lines)
	}

	producer = tpsctrl.NewThrottle(rate).Wrap(streamio.WithLogging("feedcat", producer))

	n, err := io.Copy(os.Stdout, streamio.NewFallible(producer))
	if err != nil {
		return err
	}
	log.Debug().Msgf("copied %d bytes", n)
	return nil
}

func argsProducer(args []string, lines bool) streamio.FallibleProducer[[]byte] {
	pos := 0
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		if pos == len(args) {
			return nil, io.EOF
		}
		chunk := args[pos]
		pos++
		if lines {
			chunk += "\n"
		}
		return []byte(chunk), nil
	})
}
