package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/i474232898/weather-logbook/internal/weather"
)

// RunREPL reads commands from in until EOF or quit, writing output to out.
func RunREPL(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Weather logbook (type 'help' for commands, 'quit' to exit)")
	if err := app.Refresh(ctx); err != nil {
		fmt.Fprintln(out, "Error loading entries:", err)
	}
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "weather> ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nBye!")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := handleCommand(ctx, app, line, out); done {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// handleCommand dispatches one line of input. Returns true when the user wants to quit.
func handleCommand(ctx context.Context, app *App, line string, out io.Writer) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Bye!")
		return true

	case "help", "h", "?":
		printHelp(out)

	case "get", "search":
		arg = strings.Trim(arg, `"'`)
		// Failures are part of the rendered state.
		_ = app.Search(ctx, arg)
		Render(out, app.State())

	case "here":
		_ = app.SearchHere(ctx)
		Render(out, app.State())

	case "list", "ls":
		if err := app.Refresh(ctx); err != nil {
			fmt.Fprintln(out, "Error:", err)
			return false
		}
		RenderEntries(out, app.State().Entries)

	case "edit":
		id, rest, _ := strings.Cut(arg, " ")
		if id == "" {
			fmt.Fprintln(out, "Error: usage: edit <id> field=value ...")
			return false
		}
		patch, err := parseEdit(rest)
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			return false
		}
		if err := app.Update(ctx, id, patch); err != nil {
			fmt.Fprintln(out, "Error:", err)
			return false
		}
		RenderEntries(out, app.State().Entries)

	case "delete", "del", "rm":
		if arg == "" {
			fmt.Fprintln(out, "Error: usage: delete <id>")
			return false
		}
		if err := app.Delete(ctx, arg); err != nil {
			fmt.Fprintln(out, "Error:", err)
			return false
		}
		RenderEntries(out, app.State().Entries)

	default:
		fmt.Fprintf(out, "Unknown command %q. Type 'help' for available commands.\n", cmd)
	}

	return false
}

// parseEdit turns "temperature=20°C description=Light rain" into a patch.
// A value runs until the next token containing '='.
func parseEdit(s string) (weather.Fields, error) {
	var (
		keys   []string
		values []string
	)
	for _, tok := range strings.Fields(s) {
		if k, v, ok := strings.Cut(tok, "="); ok {
			keys = append(keys, strings.ToLower(k))
			values = append(values, v)
			continue
		}
		if len(values) == 0 {
			return weather.Fields{}, fmt.Errorf("expected field=value, got %q", tok)
		}
		values[len(values)-1] += " " + tok
	}
	if len(keys) == 0 {
		return weather.Fields{}, errors.New("nothing to update; use field=value")
	}

	var f weather.Fields
	for i, k := range keys {
		v := values[i]
		switch k {
		case "location":
			f.Location = weather.Ptr(v)
		case "temperature", "temp":
			f.Temperature = weather.Ptr(v)
		case "humidity":
			f.Humidity = weather.Ptr(v)
		case "description":
			f.Description = weather.Ptr(v)
		case "start", "end":
			t, err := weather.ParseDate(v)
			if err != nil {
				return weather.Fields{}, err
			}
			if f.DateRange == nil {
				f.DateRange = &weather.DateRange{}
			}
			if k == "start" {
				f.DateRange.Start = &t
			} else {
				f.DateRange.End = &t
			}
		default:
			return weather.Fields{}, fmt.Errorf("unknown field %q", k)
		}
	}
	return f, nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  get <place>               Look up weather for a city, ZIP or landmark")
	fmt.Fprintln(out, "  here                      Look up weather for your current location")
	fmt.Fprintln(out, "  list                      Show logged entries")
	fmt.Fprintln(out, "  edit <id> field=value...  Edit an entry (location, temperature, humidity, description, start, end)")
	fmt.Fprintln(out, "  delete <id>               Delete an entry")
	fmt.Fprintln(out, "  help                      Show this help")
	fmt.Fprintln(out, "  quit                      Exit")
}
