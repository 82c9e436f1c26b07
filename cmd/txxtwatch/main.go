// Command txxtwatch parses a txxt document once, then reparses it on every
// write and prints a one-line summary (spec §4.7). The watch loop's
// debounce is grounded on the same single-file fsnotify idiom used
// elsewhere in the retrieved corpus for watching one path at a time.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jcorbin/txxt"
	"github.com/jcorbin/txxt/ast"
)

const debounce = 200 * time.Millisecond

func main() {
	flag.Parse()
	log.SetFlags(0)

	args := flag.Args()
	if len(args) != 1 {
		log.Fatalf("usage: txxtwatch file.txxt")
	}
	path := args[0]

	report(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("create watcher: %v", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		log.Fatalf("watch %s: %v", dir, err)
	}

	var timer *time.Timer
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { report(path) })

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func report(path string) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		log.Printf("read %s: %v", path, err)
		return
	}

	doc, diags := txxt.Parse(string(src))
	fmt.Printf("{sessions: %d, blocks: %d, diagnostics: %d}\n",
		countSessions(doc.Root), len(doc.Root.Blocks), len(diags))
}

func countSessions(c *ast.SessionContainer) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, b := range c.Blocks {
		if b.Kind == ast.SessionBlockKind {
			n++
			n += countSessions(b.Sessions)
		}
	}
	return n
}
