package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/smolbox/internal/presentation/tui"
	"github.com/aretw0/smolbox/pkg/domain"
)

// PrintSystemMessage prints a standardized system message to w.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// PrintWarnings reports every warning of res in yellow on w and logs it.
func PrintWarnings(w io.Writer, logger *slog.Logger, res domain.Result) {
	for _, warning := range res.Warnings {
		logger.Warn("Ignored key", "key", warning.Key, "err", warning.Err)
		tui.Warn(w, warning.Error())
	}
}

// PrintValue prints a single value: strings verbatim, everything else as JSON.
func PrintValue(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	return PrintJSON(w, v)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintDocument writes v under title. Terminals get a glamour-rendered
// markdown view unless raw is set; pipes and files always get plain JSON.
func PrintDocument(w io.Writer, title string, v any, raw bool) error {
	f, ok := w.(*os.File)
	if raw || !ok || !tui.IsTerminal(f) {
		return PrintJSON(w, v)
	}

	md, err := tui.Markdown(title, v)
	if err != nil {
		return err
	}
	out, err := tui.NewRenderer()(md)
	if err != nil {
		return PrintJSON(w, v)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// ParseAssignments turns key=value arguments into a partial Record.
// An empty value (`key=`) clears the field.
func ParseAssignments(args []string) (map[string]any, error) {
	partial := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", arg)
		}
		if value == "" {
			partial[key] = nil
			continue
		}
		partial[key] = value
	}
	return partial, nil
}

// PrintDiff summarizes a stage rotation on w.
func PrintDiff(w io.Writer, diff *domain.RecordDiff) {
	if diff.IsEmpty() {
		PrintSystemMessage(w, "Nothing to rotate.")
		return
	}

	keys := make([]string, 0, len(diff.Changed))
	for k := range diff.Changed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		PrintSystemMessage(w, "%s = %v", k, diff.Changed[k])
	}
	for _, k := range diff.Cleared {
		PrintSystemMessage(w, "%s cleared", k)
	}
}
