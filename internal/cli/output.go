package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Binding:
		o.printBinding(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Binding response type (matches API)
type Binding struct {
	Identity     string    `json:"identity"`
	PlayerName   string    `json:"player_name"`
	LastChangeAt time.Time `json:"last_change_at"`
	NextChangeAt time.Time `json:"next_change_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

const timeLayout = "2006-01-02 15:04 MST"

func (o *Output) printBinding(b Binding) {
	fmt.Fprintf(o.w, "Identity:     %s\n", b.Identity)
	fmt.Fprintf(o.w, "Player name:  %s\n", b.PlayerName)
	fmt.Fprintf(o.w, "Registered:   %s\n", b.CreatedAt.UTC().Format(timeLayout))
	fmt.Fprintf(o.w, "Last change:  %s\n", b.LastChangeAt.UTC().Format(timeLayout))
	fmt.Fprintf(o.w, "Next change:  %s\n", b.NextChangeAt.UTC().Format(timeLayout))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
