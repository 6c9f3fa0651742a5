package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/daoforge/daoforge/internal/session"
)

var (
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	mutedColor   = color.New(color.FgHiBlack)
)

// terminalHost renders migration progress to the terminal and answers the
// engine's approval requests from stdin. Done is closed on OnStop.
type terminalHost struct {
	out         io.Writer
	in          *bufio.Reader
	autoApprove bool
	verbose     bool
	done        chan struct{}
}

func newTerminalHost(autoApprove, verbose bool) *terminalHost {
	return &terminalHost{
		out:         os.Stdout,
		in:          bufio.NewReader(os.Stdin),
		autoApprove: autoApprove,
		verbose:     verbose,
		done:        make(chan struct{}),
	}
}

func (h *terminalHost) OnStart() {
	fmt.Fprintln(h.out, "Starting migration...")
}

func (h *terminalHost) OnComplete(result json.RawMessage) {
	successColor.Fprintln(h.out, "\n✅ Migration complete!")
	if len(result) > 0 && h.verbose {
		var pretty map[string]any
		if err := json.Unmarshal(result, &pretty); err == nil {
			data, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Fprintln(h.out, string(data))
		}
	}
}

func (h *terminalHost) OnAbort(err error) {
	errorColor.Fprintf(h.out, "\n❌ Migration aborted: %v\n", err)
}

func (h *terminalHost) OnStop() {
	close(h.done)
}

// Render writes one log line as it arrives. Approval requests are answered
// inline; the engine blocks until the user decides.
func (h *terminalHost) Render(line session.LogLine) {
	switch l := line.(type) {
	case *session.ApprovalRequest:
		h.answerApproval(l)
	case session.InfoLine:
		infoColor.Fprintf(h.out, "  %s\n", l.Text)
	case session.ErrorLine:
		errorColor.Fprintf(h.out, "  error: %s\n", l.Text)
	case session.TransactionResult:
		successColor.Fprintf(h.out, "  ✓ %s\n", l.Text)
		mutedColor.Fprintf(h.out, "    tx %s  cost %g\n", l.TxHash, l.Cost)
	case session.AbortedLine:
		// OnAbort prints the failure
	}
}

func (h *terminalHost) answerApproval(req *session.ApprovalRequest) {
	if h.autoApprove {
		_ = req.Resolve(true)
		return
	}

	fmt.Fprintf(h.out, "\n%s\nProceed? (yes/no): ", req.Text)
	response, err := h.in.ReadString('\n')
	if err != nil {
		_ = req.Resolve(false)
		return
	}
	response = strings.ToLower(strings.TrimSpace(response))
	_ = req.Resolve(response == "yes" || response == "y")
}
