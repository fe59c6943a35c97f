package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"golang.org/x/term"
)

const (
	ProgressPrefix = "ELASTICRTC: "
	WarnPrefix     = "WARN: "
)

// Progress prints what the tool is doing. A quiet Progress prints nothing so
// the report stays parseable.
type Progress struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool

	spin    *spinner.Spinner
	message string
	dots    int
}

func NewProgress(out io.Writer, quiet bool) *Progress {
	return &Progress{out: out, quiet: quiet}
}

func (p *Progress) Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Get().Debug(msg)
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, ProgressPrefix+msg)
}

func (p *Progress) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Get().Warn(msg)
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, WarnPrefix+msg)
}

// Begin starts a wait. On a terminal a spinner runs until Done or Abort;
// elsewhere the message is printed and every Tick appends a dot.
func (p *Progress) Begin(message string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.message = message
	p.dots = 0
	if f, ok := p.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
		p.spin.Prefix = message + " "
		_ = p.spin.Color("green")
		p.spin.Start()
		return
	}
	fmt.Fprint(p.out, message)
}

func (p *Progress) Tick() {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dots++
	if p.spin != nil {
		p.spin.Lock()
		p.spin.Prefix = p.message + strings.Repeat(".", p.dots) + " "
		p.spin.Unlock()
		return
	}
	fmt.Fprint(p.out, ".")
}

// Done ends the current wait with [OK].
func (p *Progress) Done() {
	p.finish("[OK]\n")
}

// Abort ends the current wait without a verdict.
func (p *Progress) Abort() {
	p.finish("\n")
}

func (p *Progress) finish(suffix string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spin != nil {
		p.spin.FinalMSG = p.message + strings.Repeat(".", p.dots) + suffix
		p.spin.Stop()
		p.spin = nil
		return
	}
	if p.message == "" {
		return
	}
	fmt.Fprint(p.out, suffix)
	p.message = ""
}
