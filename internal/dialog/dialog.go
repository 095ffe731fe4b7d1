// Package dialog shows modal alert boxes through whichever desktop dialog
// program is installed, falling back to a log line when none is.
package dialog

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// program describes one dialog tool and how it shapes its arguments.
type program struct {
	name string
	args func(title, text string) []string
}

// Candidates in preference order.
var programs = []program{
	{"zenity", func(title, text string) []string {
		return []string{"--error", "--width=500", "--title", title, "--text", text}
	}},
	{"kdialog", func(title, text string) []string {
		return []string{"--title", title, "--error", text}
	}},
	{"Xdialog", func(title, text string) []string {
		return []string{"--title", title, "--msgbox", text, "0", "0"}
	}},
	{"xmessage", func(title, text string) []string {
		return []string{"-center", "-title", title, text}
	}},
}

// Alert blocks until the user dismisses the box. When no dialog program is
// found the message is logged instead and no error is reported; the alert
// is best effort.
func Alert(logger *slog.Logger, title, text string) error {
	for _, p := range programs {
		path, err := exec.LookPath(p.name)
		if err != nil {
			continue
		}
		cmd := exec.Command(path, p.args(title, text)...)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
		return nil
	}
	logger.Warn("no dialog program found", "title", title, "text", text)
	return nil
}
