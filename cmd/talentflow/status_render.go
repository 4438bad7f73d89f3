package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"talentflow/internal/reconciler"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

var statusBadges = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

// renderStatusLine formats "  Label:         [KIND] message" with the label
// padded so consecutive lines align.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	badge := statusBadges[kind]
	line := fmt.Sprintf("  %-14s [%s]", label+":", badge.label)
	if message != "" {
		line += " " + message
	}
	if colorize && badge.color != "" {
		return badge.color + line + ansiReset
	}
	return line
}

// sourceStatusLine reports where board data came from.
func sourceStatusLine(mode reconciler.Mode, degraded bool, colorize bool) string {
	switch {
	case mode == reconciler.ModeRemote:
		return renderStatusLine("Source", statusOK, "remote", colorize)
	case degraded:
		return renderStatusLine("Source", statusWarn, "local fallback (remote read failed)", colorize)
	default:
		return renderStatusLine("Source", statusWarn, "local fallback (remote unavailable)", colorize)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
