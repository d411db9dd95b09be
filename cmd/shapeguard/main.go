package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shapeguard "github.com/reoring/shapeguard"
	"github.com/reoring/shapeguard/i18n"
	"github.com/reoring/shapeguard/reporter"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "shapeguard CLI\n\nUsage:\n  shapeguard check -shape shape.json -in data.json [-format json|yaml] [-lang en|ja] [-dump]\n\nExit codes:\n  0 subject conforms to shape\n  1 verification failed\n  2 usage or decode error")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var shapePath, inPath, format, lang string
	var maxDepth int
	var dump bool
	fs.StringVar(&shapePath, "shape", "", "path to the shape file")
	fs.StringVar(&inPath, "in", "", "path to the subject file")
	fs.StringVar(&format, "format", "", "input format: json or yaml (default: by extension)")
	fs.StringVar(&lang, "lang", "en", "message language: en or ja")
	fs.IntVar(&maxDepth, "max-depth", 0, "verification depth limit (0 = default)")
	fs.BoolVar(&dump, "dump", false, "also print the shape and subject trees")
	_ = fs.Parse(args)
	if shapePath == "" || inPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	i18n.SetLanguage(lang)

	shape, err := decodeFile(shapePath, format)
	if err != nil {
		fatalf("decode shape: %v", err)
	}
	subject, err := decodeFile(inPath, format)
	if err != nil {
		fatalf("decode subject: %v", err)
	}

	rep := shapeguard.Verify(shape, subject, shapeguard.VerifyOpt{MaxDepth: maxDepth})

	r := reporter.New(os.Stdout)
	if dump {
		err = r.RenderWithTrees(rep, shape, subject)
	} else {
		err = r.Render(rep)
	}
	if err != nil {
		fatalf("render: %v", err)
	}
	if !rep.OK() {
		os.Exit(1)
	}
}

func decodeFile(path, format string) (shapeguard.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	// Duplicate keys in a shape or subject silently shadow each other, so
	// treat them as hard input errors here.
	switch format {
	case "yaml":
		return shapeguard.DecodeYAML(f)
	case "json":
		return shapeguard.DecodeJSON(f, shapeguard.DecodeOpt{OnDuplicateKey: shapeguard.Error})
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
