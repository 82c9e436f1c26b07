// Command txxtfmt parses a txxt document, reports its diagnostics, and,
// given -w, rewrites the file in its canonical form (spec §4.7).
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/google/renameio"
	"github.com/jcorbin/txxt"
	"github.com/jcorbin/txxt/printer"
)

func main() {
	var write bool
	flag.BoolVar(&write, "w", false, "reformat the file in place")
	flag.Parse()
	log.SetFlags(0)

	args := flag.Args()
	if len(args) != 1 {
		log.Fatalf("usage: txxtfmt [-w] file.txxt")
	}
	path := args[0]

	src, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	doc, diags := txxt.Parse(string(src))
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%v: %v @ %v\n", d.Severity, d.Message, d.Span)
	}

	if !write {
		return
	}

	pf, err := renameio.TempFile("", path)
	if err != nil {
		log.Fatalf("stage rewrite of %s: %v", path, err)
	}
	defer pf.Cleanup()

	if err := printer.Print(pf, doc); err != nil {
		log.Fatalf("format %s: %v", path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		log.Fatalf("replace %s: %v", path, err)
	}
}
