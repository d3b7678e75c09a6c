package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/drunlade/go-dumb/terminal"
	"github.com/drunlade/go-dumb/xmodem"
	"golang.org/x/term"
)

var (
	configFile = flag.String("config", "", "TOML configuration file")
	line       = flag.String("l", "", "serial line (default /dev/ttyS0)")
	baud       = flag.Int("b", 0, "baud rate (default 115200)")
	escape     = flag.String("e", "", "escape character, ^X or a number (default ^A)")
	timestamp  = flag.Bool("t", false, "timestamp line output")
	history    = flag.String("h", "", "history file (default .dumb)")
	logFile    = flag.String("log", "", "protocol log file (for debugging)")
	version    = flag.Bool("version", false, "show version")
)

const versionString = "dumb version 0.1.0"

func main() {
	flag.Usage = func() { showUsage(2) }
	flag.Parse()

	if *version {
		fmt.Println(versionString)
		os.Exit(0)
	}

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	esc, err := config.EscapeChar()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	os.Exit(run(config, esc))
}

// run holds the line and the raw console; both are restored before it
// returns, whichever way the session ends.
func run(config *terminal.Config, esc byte) int {
	var logger xmodem.Logger = xmodem.NoopLogger()
	if config.LogFile != "" {
		fileLogger, err := xmodem.NewFileLogger(config.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log file: %v\n", err)
			return 1
		}
		defer fileLogger.Sync()
		logger = fileLogger
	}

	serialLine, err := terminal.OpenLine(config.Line, config.Baud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer serialLine.Close()

	var channel xmodem.Channel = serialLine
	if config.LogFile != "" {
		channel = xmodem.NewLoggingChannel(serialLine, logger, "line")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw terminal mode: %v\n", err)
		return 1
	}
	defer term.Restore(fd, oldState)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	hist := terminal.NewHistory(config.History)
	if err := hist.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "can't read history: %v\n", err)
	}
	mux := terminal.NewMux(terminal.NewSession(esc, config.Timestamp), channel, os.Stdin, os.Stdout,
		terminal.WithHistory(hist),
		terminal.WithShell(config.Shell),
		terminal.WithLogger(logger),
	)

	logger.Infof("connected to %s at %d baud", config.Line, terminal.StandardBaud(config.Baud))
	err = mux.Run(ctx)
	term.Restore(fd, oldState)

	if herr := hist.Save(); herr != nil {
		fmt.Fprintf(os.Stderr, "can't save history: %v\n", herr)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "\ninterrupted\n")
		return 1
	default:
		fmt.Fprintf(os.Stderr, "poll %s: %v\n", config.Line, err)
		return 1
	}
}

// loadConfig reads the configuration file, if any, then applies the flags
// given on the command line.
func loadConfig() (*terminal.Config, error) {
	config := terminal.DefaultConfig()
	if *configFile != "" {
		var err error
		if config, err = terminal.LoadConfig(*configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			config.Line = *line
		case "b":
			config.Baud = *baud
		case "e":
			config.Escape = *escape
		case "t":
			config.Timestamp = *timestamp
		case "h":
			config.History = *history
		case "log":
			config.LogFile = *logFile
		}
	})
	return config, nil
}

func showUsage(exitcode int) {
	fmt.Fprintf(os.Stderr, `%s - a dumb terminal with XMODEM send

Usage: %s [options]

Options:
  -l line          serial line (default /dev/ttyS0)
  -b baud          baud rate, rounded up to a standard rate (default 115200)
  -e char          escape character, ^X or a number (default ^A)
  -t               timestamp line output
  -h file          history file (default .dumb)
  -config file     TOML configuration file, overridden by the options above
  -log file        protocol log file for debugging
  -version         show version

Commands, typed after the escape character:
  t   toggle timestamps
  s   send a file with XMODEM
  c   run a command with the line as its input and output
  h   send a line of text
  x   exit
  the escape character again sends it to the line

Example:
  %s -l /dev/ttyUSB0 -b 9600 -e ^B

`, versionString, os.Args[0], os.Args[0])
	os.Exit(exitcode)
}
