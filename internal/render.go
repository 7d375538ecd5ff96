package internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	offerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// ConsoleView renders overlay and pill activity as styled terminal lines.
// It implements both OverlayView and PillView, which lets the replay
// harness show a whole scripted run in one stream.
type ConsoleView struct {
	out io.Writer
}

// NewConsoleView creates a view writing to out; nil means stdout.
func NewConsoleView(out io.Writer) *ConsoleView {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleView{out: out}
}

func (v *ConsoleView) ShowState(state OverlayState, payload string) {
	switch state {
	case StateHidden:
		fmt.Fprintf(v.out, "%s\n", dimStyle.Render("overlay hidden"))
	case StateIdle:
		fmt.Fprintf(v.out, "%s\n", dimStyle.Render("overlay idle"))
	case StateLoading:
		fmt.Fprintf(v.out, "%s %s\n", noticeStyle.Render("…"), payload)
	case StateResult:
		fmt.Fprintf(v.out, "%s\n%s\n", successStyle.Render("✓ enhanced prompt"), resultStyle.Render(payload))
	case StateError:
		fmt.Fprintf(v.out, "%s %s\n", errorStyle.Render("✗"), payload)
	}
}

func (v *ConsoleView) ShowNotice(text string) {
	fmt.Fprintf(v.out, "%s %s\n", noticeStyle.Render("ℹ"), text)
}

func (v *ConsoleView) HideNotice() {
	fmt.Fprintf(v.out, "%s\n", dimStyle.Render("notice dismissed"))
}

func (v *ConsoleView) ShowOffer(text string) {
	fmt.Fprintf(v.out, "%s %s\n", offerStyle.Render("?"), text)
}

func (v *ConsoleView) HideOffer() {
	fmt.Fprintf(v.out, "%s\n", dimStyle.Render("offer dismissed"))
}

func (v *ConsoleView) ShowAt(x, y float64) {
	fmt.Fprintf(v.out, "%s\n", dimStyle.Render(fmt.Sprintf("pill at (%.0f, %.0f)", x, y)))
}

func (v *ConsoleView) Hide() {
	fmt.Fprintf(v.out, "%s\n", dimStyle.Render("pill hidden"))
}

func (v *ConsoleView) Busy(active bool) {
	if active {
		fmt.Fprintf(v.out, "%s\n", noticeStyle.Render("pill working…"))
	}
}

func (v *ConsoleView) Flash(ok bool) {
	if ok {
		fmt.Fprintf(v.out, "%s\n", successStyle.Render("✓ text replaced"))
	} else {
		fmt.Fprintf(v.out, "%s\n", errorStyle.Render("✗ enhancement unavailable"))
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if isTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintError prints an error message
func PrintError(message string) {
	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if isTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", noticeStyle.Render("ℹ"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", message)
	}
}

// PrintTimestamp prints a dim timestamped line, used by the replay trace.
func PrintTimestamp(at time.Time, message string) {
	fmt.Printf("%s %s\n", dimStyle.Render(at.Format("15:04:05.000")), message)
}
