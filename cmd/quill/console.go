package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/quilledit/quill/internal/app"
	"github.com/quilledit/quill/internal/buffer"
)

// console implements the workbench's UI collaborators on a terminal:
// modal prompts read a line from stdin, notices print to stdout.
//
// Input arrives through a channel fed by a reader goroutine, so the
// repl can wait on a line and an OS signal at the same time while the
// workbench itself stays on the repl goroutine. The channel closes on
// EOF; after that every prompt answers like a dismissal.
type console struct {
	lines chan string
	out   io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	c := &console{lines: make(chan string), out: out}
	go func() {
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				if line != "" {
					c.lines <- strings.TrimSpace(line)
				}
				close(c.lines)
				return
			}
			c.lines <- strings.TrimSpace(line)
		}
	}()
	return c
}

// ConfirmSave implements app.Confirmer.
func (c *console) ConfirmSave(name string) app.Choice {
	for {
		fmt.Fprintf(c.out, "%s has unsaved changes. [s]ave / [d]iscard / [c]ancel: ", name)
		line, ok := c.readLine()
		if !ok {
			return app.ChoiceCancel
		}
		switch line {
		case "s", "save":
			return app.ChoiceSave
		case "d", "discard":
			return app.ChoiceDiscard
		case "c", "cancel", "":
			return app.ChoiceCancel
		}
	}
}

// ConfirmYesNo implements app.Confirmer.
func (c *console) ConfirmYesNo(title, message string) bool {
	fmt.Fprintf(c.out, "%s: %s [y/N]: ", title, message)
	answer, _ := c.readLine()
	return answer == "y" || answer == "yes"
}

// ChooseSavePath implements app.PathChooser.
func (c *console) ChooseSavePath(b *buffer.Buffer) (string, bool) {
	fmt.Fprintf(c.out, "Save %s as (empty cancels): ", b.Name())
	path, ok := c.readLine()
	return path, ok && path != ""
}

// ChooseOpenPaths implements app.PathChooser.
func (c *console) ChooseOpenPaths() ([]string, bool) {
	fmt.Fprint(c.out, "Open (space separated, empty cancels): ")
	line, ok := c.readLine()
	if !ok || line == "" {
		return nil, false
	}
	return strings.Fields(line), true
}

// Notify implements app.Notifier.
func (c *console) Notify(message string) {
	fmt.Fprintf(c.out, "! %s\n", message)
}

func (c *console) readLine() (string, bool) {
	line, ok := <-c.lines
	return line, ok
}
