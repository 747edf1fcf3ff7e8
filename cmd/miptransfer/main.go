package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ipmnet/miptransfer/mip"
)

const versionString = "miptransfer version 0.1.0"

var (
	mode    = flag.String("mode", "", "send or receive")
	ip      = flag.String("ip", "", "MIP host")
	port    = flag.Int("port", 0, "MIP port")
	file    = flag.String("file", "", "local file path")
	ipmname = flag.String("ipmname", "", "transmission id (9 or 14 chars)")
	verbose = flag.Bool("v", false, "verbose mode")
	quiet   = flag.Bool("q", false, "quiet mode")
	help    = flag.Bool("h", false, "show help")
	version = flag.Bool("version", false, "show version")
)

func main() {
	flag.Parse()

	if *help {
		showUsage(0)
	}
	if *version {
		fmt.Println(versionString)
		os.Exit(0)
	}
	if *mode != "send" && *mode != "receive" {
		fmt.Fprintf(os.Stderr, "%s: --mode must be send or receive\n", os.Args[0])
		showUsage(2)
	}
	if *ip == "" || *port == 0 || *file == "" || *ipmname == "" {
		fmt.Fprintf(os.Stderr, "%s: --ip, --port, --file, and --ipmname are required\n", os.Args[0])
		showUsage(2)
	}

	var log mip.Logger = mip.NoopLogger{}
	if *verbose {
		log = stderrLogger{}
	}

	callbacks := &mip.Callbacks{
		OnProgress: func(label string, transferred, total int64, rate float64) {
			if *quiet || !*verbose {
				return
			}
			fmt.Fprintf(os.Stderr, "\r%s: %d/%d bytes (%.0f B/s)", label, transferred, total, rate)
		},
		OnWarning: func(context, detail string) {
			if !*quiet {
				fmt.Fprintf(os.Stderr, "warning [%s]: %s\n", context, detail)
			}
		},
	}

	session := mip.NewSession(
		mip.WithCallbacks(callbacks),
		mip.WithLogger(log),
	)

	addr := fmt.Sprintf("%s:%d", *ip, *port)

	var err error
	switch *mode {
	case "send":
		err = runSend(session, addr)
	case "receive":
		err = runReceive(session, addr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		if mip.IsKind(err, mip.UsageError) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runSend(session *mip.Session, addr string) error {
	f, err := os.Open(*file)
	if err != nil {
		return mip.NewError(mip.IoError, "open %s: %v", *file, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return mip.NewError(mip.IoError, "stat %s: %v", *file, err)
	}
	return session.Send(addr, *ipmname, f, info.Size())
}

func runReceive(session *mip.Session, addr string) error {
	f, err := os.Create(*file)
	if err != nil {
		return mip.NewError(mip.IoError, "create %s: %v", *file, err)
	}
	defer f.Close()
	ss, err := session.Receive(addr, *ipmname, f)
	if err != nil {
		return err
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "sequence used = %d\n", ss)
	}
	return nil
}

type stderrLogger struct{}

func (stderrLogger) Debug(format string, args ...any) { fmt.Fprintf(os.Stderr, "DEBUG: "+format+"\n", args...) }
func (stderrLogger) Info(format string, args ...any)  { fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...) }
func (stderrLogger) Error(format string, args ...any) { fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...) }

func showUsage(exitcode int) {
	fmt.Fprintf(os.Stderr, `%s - transfer a raw IPM container to/from a MIP endpoint

Usage: %s --mode send|receive --ip IP --port PORT --file FILE --ipmname ID

Options:
  -v               verbose mode
  -q               quiet mode
  -h, --help       show this help message
  --version        show version

`, versionString, os.Args[0])
	os.Exit(exitcode)
}
