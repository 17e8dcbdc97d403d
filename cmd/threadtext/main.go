// Command threadtext converts a Reddit post and its comment tree into an
// upvote-ranked plain-text transcript, written to stdout or to a file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/threadtext/engine/convert"
	"github.com/WessleyAI/threadtext/engine/fetch"
	"github.com/WessleyAI/threadtext/pkg/config"
	"github.com/WessleyAI/threadtext/pkg/natsutil"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	output  string
	timeout time.Duration
	natsURL string
	subject string
	url     string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("threadtext", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.output, "o", "", "write the transcript to this file instead of stdout")
	fs.DurationVar(&o.timeout, "timeout", fetch.DefaultTimeout, "fetch timeout")
	fs.StringVar(&o.natsURL, "nats", "", "NATS URL of a convert-worker (if empty, convert locally)")
	fs.StringVar(&o.subject, "subject", config.EnvOr("CONVERT_SUBJECT", "threadtext.convert"), "NATS subject for conversion requests")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: threadtext [-o file] [-timeout d] [-nats url] <post-url>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errors.New("exactly one post URL is required")
	}
	o.url = fs.Arg(0)
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: config.LogLevel()}))

	var output string
	if opts.natsURL != "" {
		output, err = convertRemote(ctx, opts, logger)
	} else {
		output, err = convertLocal(ctx, opts, logger)
	}
	if err != nil {
		logger.Error("conversion failed", "url", opts.url, "err", err)
		return exitError
	}

	if err := writeOutput(opts.output, stdout, output); err != nil {
		logger.Error("write failed", "path", opts.output, "err", err)
		return exitError
	}
	if opts.output != "" {
		logger.Info("output saved", "path", opts.output)
	}
	return exitOK
}

func convertLocal(ctx context.Context, opts options, logger *slog.Logger) (string, error) {
	svc := convert.New(
		fetch.New(fetch.Config{
			UserAgent: config.EnvOr("USER_AGENT", fetch.DefaultUserAgent),
			Timeout:   opts.timeout,
		}),
		convert.WithLogger(logger),
	)
	res, err := svc.Convert(ctx, opts.url)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

func convertRemote(ctx context.Context, opts options, logger *slog.Logger) (string, error) {
	nc, err := nats.Connect(opts.natsURL, nats.Name("threadtext-cli"))
	if err != nil {
		return "", fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	// The worker bounds the fetch by its own timeout; leave room for the reply.
	ctx, cancel := context.WithTimeout(ctx, opts.timeout+5*time.Second)
	defer cancel()

	logger.Info("delegating conversion", "subject", opts.subject, "url", opts.url)
	env, err := natsutil.Request[convert.Request, convert.Envelope](ctx, nc, opts.subject, convert.Request{URL: opts.url})
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", errors.New(env.Error)
	}
	logger.Info("found comments", "count", env.CommentCount)
	return env.Output, nil
}

func writeOutput(path string, stdout io.Writer, output string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, output)
		return err
	}
	return os.WriteFile(path, []byte(output), 0o644)
}
