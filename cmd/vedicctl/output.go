package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"vedic_counter/internal/client"
	"vedic_counter/internal/models"
)

const resetPrompt = "Are you sure you want to reset the timer and counter? (yes/no): "

// confirmReset asks once. Only "y" or "yes" (any case) confirms.
func confirmReset(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, resetPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printView(w io.Writer, v models.CounterView) {
	timer := "paused"
	if v.TimerRunning {
		timer = "running"
	}
	fmt.Fprintf(w, "count:    %d (start %d)\n", v.Count, v.StartingNumber)
	fmt.Fprintf(w, "cycles:   %d (last at %d, every %d)\n", v.CompletedCycles, v.LastCycleCount, v.CycleLength)
	fmt.Fprintf(w, "timer:    %s %s\n", v.Elapsed, timer)
	if v.ShowCycleMessage {
		fmt.Fprintln(w, v.CycleMessage)
	}
}

func printResult(w io.Writer, res client.Result) {
	fmt.Fprintf(w, "%s\n", res.Status)
	printView(w, res.State)
}
