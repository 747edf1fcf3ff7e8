package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ipmnet/miptransfer/mip"
)

const versionString = "ipmconv version 0.1.0"

var (
	input   = flag.String("input", "", "input file path")
	output  = flag.String("output", "", "output file path")
	verbose = flag.Bool("v", false, "verbose mode")
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

	args := flag.Args()
	if len(args) > 1 {
		// Options may also follow the subcommand: encode --input F --output F.
		flag.CommandLine.Parse(args[1:])
		args = append([]string{args[0]}, flag.Args()...)
	}
	if len(args) != 1 || (args[0] != "encode" && args[0] != "decode") {
		fmt.Fprintf(os.Stderr, "%s: expected exactly one subcommand, encode or decode\n", os.Args[0])
		showUsage(2)
	}
	if *input == "" || *output == "" {
		fmt.Fprintf(os.Stderr, "%s: --input and --output are required\n", os.Args[0])
		showUsage(2)
	}

	var log mip.Logger = mip.NoopLogger{}
	if *verbose {
		log = stderrLogger{}
	}
	conv := mip.NewConverter(log)

	var err error
	switch args[0] {
	case "encode":
		err = conv.EncodeFile(*input, *output)
	case "decode":
		err = conv.DecodeFile(*input, *output)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		if mip.IsKind(err, mip.UsageError) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// stderrLogger is the -v verbose logger (mipmanager and miptransfer each
// define the same type): it writes straight to stderr rather than a
// file, matching the teacher's verbose flag behavior in cmd/gsz and
// cmd/grz.
type stderrLogger struct{}

func (stderrLogger) Debug(format string, args ...any) { fmt.Fprintf(os.Stderr, "DEBUG: "+format+"\n", args...) }
func (stderrLogger) Info(format string, args ...any)  { fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...) }
func (stderrLogger) Error(format string, args ...any) { fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...) }

func showUsage(exitcode int) {
	fmt.Fprintf(os.Stderr, `%s - convert between IPM container and text

Usage: %s [options] encode|decode --input FILE --output FILE

Options:
  -v               verbose mode
  -h, --help       show this help message
  --version        show version

`, versionString, os.Args[0])
	os.Exit(exitcode)
}
