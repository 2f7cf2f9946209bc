// Package prompt asks the user on a terminal how to synchronize an item.
//
// Decider implements reconcile.Decider. For every undecided item it prints
// the local and vault metadata and reads one of:
//
//	<      mirror to file
//	>      mirror to vault
//	/      skip
//	enter  accept the default shown in brackets
//
// End of input skips the item.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"vault-sync/core/reconcile"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

const timeLayout = "2006-01-02 15:04:05"

// Decider is an interactive reconcile.Decider.
type Decider struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// New creates a decider reading answers from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Decider {
	return &Decider{in: bufio.NewReader(in), out: out}
}

func (d *Decider) OnFileOnly(proposal reconcile.Direction, info reconcile.ItemInfo) reconcile.Direction {
	return d.ask(proposal, info, "is not present in vault.")
}

func (d *Decider) OnVaultOnly(proposal reconcile.Direction, info reconcile.ItemInfo) reconcile.Direction {
	return d.ask(proposal, info, "is not present as local file.")
}

func (d *Decider) OnConflict(proposal reconcile.Direction, info reconcile.ItemInfo) reconcile.Direction {
	return d.ask(proposal, info, "differs:")
}

func (d *Decider) ask(proposal reconcile.Direction, info reconcile.ItemInfo, text string) reconcile.Direction {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintf(d.out, "%s %s\n", color.YellowString("[%s]", info.ItemID), text)
	if info.HasFile {
		fmt.Fprintf(d.out, "  %s %s\n", color.CyanString("local file:"), describe(info.FileModTime, uint64(info.FileSize)))
	}
	if info.HasItem {
		fmt.Fprintf(d.out, "  %s %s\n", color.CyanString("vault:"), describe(info.ItemModTime, uint64(info.ItemSize)))
	}

	question := fmt.Sprintf(`Select "<" to mirror to file, ">" to mirror to vault, "/" to skip, enter for default [%s]: `,
		color.GreenString(symbol(proposal)))

	for {
		fmt.Fprint(d.out, question)
		line, err := d.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && answer == "" {
			fmt.Fprintln(d.out)
			return reconcile.Skip
		}

		switch answer {
		case "<":
			return reconcile.ToFile
		case ">":
			return reconcile.ToVault
		case "/":
			return reconcile.Skip
		case "":
			return proposal
		}
		fmt.Fprintln(d.out, color.RedString("✗")+" Invalid choice. Try again.")
	}
}

func describe(t time.Time, size uint64) string {
	return fmt.Sprintf("%s UTC (%s), %s", t.UTC().Format(timeLayout), humanize.Time(t), humanize.Bytes(size))
}

func symbol(d reconcile.Direction) string {
	switch d {
	case reconcile.ToFile:
		return "<"
	case reconcile.ToVault:
		return ">"
	default:
		return "/"
	}
}
