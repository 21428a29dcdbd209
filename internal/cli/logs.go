package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/domain/mutations"
	"pet-care-log/internal/domain/pets"

	"github.com/spf13/cobra"
)

// LogsOptions son los flags compartidos por los subcomandos de logs.
type LogsOptions struct {
	*RootOptions
	Pet string // id o nombre; vacío => la mascota activa (la más nueva)
}

func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List, add and delete care logs of a pet",
	}
	cmd.PersistentFlags().StringVar(&opts.Pet, "pet", "", "pet id or name (default: newest pet)")

	cmd.AddCommand(newLogsListCommand(opts))
	cmd.AddCommand(newLogsAddCommand(opts))
	cmd.AddCommand(newLogsRemoveCommand(opts))
	return cmd
}

// selectPet activa la mascota pedida. El dashboard recarga los logs solo.
func (o *LogsOptions) selectPet(cmd *cobra.Command, a *app) (pets.Pet, error) {
	if a.dash.Roster.Empty() {
		return pets.Pet{}, NewExitError(ExitCommandError, emptyRosterPrompt)
	}

	if want := strings.TrimSpace(o.Pet); want != "" {
		id := ""
		for _, p := range a.dash.Roster.Pets() {
			if p.ID == want || strings.EqualFold(p.Name, want) {
				id = p.ID
				break
			}
		}
		if err := a.dash.Roster.Select(cmd.Context(), id); err != nil {
			return pets.Pet{}, WrapExitError(ExitCommandError, fmt.Sprintf("pet %q", want), err)
		}
	}

	p, ok := a.dash.Roster.Active()
	if !ok {
		return pets.Pet{}, NewExitError(ExitCommandError, "select a pet with --pet")
	}
	a.out.VerboseLog("active pet: %s (%s)", p.Name, p.ID)
	return p, nil
}

type LogsListOptions struct {
	*LogsOptions
	Type   string
	Search string
}

func newLogsListCommand(logsOpts *LogsOptions) *cobra.Command {
	opts := &LogsListOptions{LogsOptions: logsOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List care logs (newest first)",
		Long: `List care logs of a pet, newest first.

--type filters by log type (all, feeding, walking, grooming, medical,
medication, other). --search matches notes or caregiver, case-insensitive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, ok := carelogs.ParseFilter(opts.Type)
			if !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --type %q", opts.Type))
			}

			a, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := opts.selectPet(cmd, a)
			if err != nil {
				return err
			}

			a.dash.View.SetFilter(cmd.Context(), filter)
			a.dash.View.SetSearch(cmd.Context(), opts.Search)
			visible := a.dash.View.Visible()
			total := len(a.dash.View.Logs())

			out := make([]carelogs.LogResponse, 0, len(visible))
			for _, l := range visible {
				out = append(out, carelogs.ToResponse(l))
			}
			return a.out.Success(out, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %d of %d logs\n", p.Name, len(visible), total)
				writeLogs(w, visible)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "all", "filter by log type")
	cmd.Flags().StringVar(&opts.Search, "search", "", "search notes and caregiver")
	return cmd
}

type LogsAddOptions struct {
	*LogsOptions
	Type         string
	At           string
	Quantity     string
	Unit         string
	DurationMins string
	Caregiver    string
	Notes        string
}

func newLogsAddCommand(logsOpts *LogsOptions) *cobra.Command {
	opts := &LogsAddOptions{LogsOptions: logsOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a care log to the active pet",
		Long: `Add a care log. --at defaults to now (minute precision).

Example:
  petlog logs add --pet Buddy --type feeding --quantity 200 --unit g --caregiver Ana
  petlog logs add --type walking --duration 30 --at "2024-05-01 08:30"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return addLog(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "feeding|walking|grooming|medical|medication|other (required)")
	cmd.Flags().StringVar(&opts.At, "at", "", "when (RFC3339 or YYYY-MM-DD HH:MM, local time)")
	cmd.Flags().StringVar(&opts.Quantity, "quantity", "", "quantity (feeding)")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "quantity unit")
	cmd.Flags().StringVar(&opts.DurationMins, "duration", "", "duration in minutes (walking)")
	cmd.Flags().StringVar(&opts.Caregiver, "caregiver", "", "who did it")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "notes")
	return cmd
}

func addLog(cmd *cobra.Command, opts *LogsAddOptions) error {
	var at time.Time
	if strings.TrimSpace(opts.At) != "" {
		t, ok := mutations.ParseFormTime(opts.At, time.Local)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid --at %q", opts.At))
		}
		at = t
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := opts.selectPet(cmd, a); err != nil {
		return err
	}

	form := a.dash.Mutations.NewLogForm()
	if !at.IsZero() {
		form.Timestamp = at
	}
	form.Type = opts.Type
	form.Quantity = opts.Quantity
	form.QuantityUnit = opts.Unit
	form.DurationMins = opts.DurationMins
	form.Caregiver = opts.Caregiver
	form.Notes = opts.Notes

	l, err := a.dash.Mutations.CreateLog(cmd.Context(), form)
	if err != nil {
		return commandErr("add log", err)
	}

	return a.out.Success(carelogs.ToResponse(l), func(w io.Writer) {
		writeLogs(w, []carelogs.Log{l})
	})
}

func newLogsRemoveCommand(logsOpts *LogsOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <log-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a care log (no confirmation)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := logsOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			// si el log es de la mascota activa, el dashboard recarga la lista
			if logsOpts.Pet != "" {
				if _, err := logsOpts.selectPet(cmd, a); err != nil {
					return err
				}
			}

			if err := a.dash.Mutations.DeleteLog(cmd.Context(), args[0]); err != nil {
				return commandErr("delete log", err)
			}
			return a.out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {})
		},
	}
}

func writeLogs(w io.Writer, items []carelogs.Log) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tTYPE\tWHEN\tDETAILS\tCAREGIVER\tID")
	for _, l := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Type.Icon(),
			l.Type.Label(),
			l.Timestamp.Local().Format("2006-01-02 15:04"),
			details(l),
			deref(l.Caregiver),
			l.ID,
		)
	}
	_ = tw.Flush()
}

func details(l carelogs.Log) string {
	var parts []string
	if l.Quantity != nil {
		q := strconv.FormatFloat(*l.Quantity, 'f', -1, 64)
		if u := deref(l.QuantityUnit); u != "" {
			q += " " + u
		}
		parts = append(parts, q)
	}
	if l.DurationMins != nil {
		parts = append(parts, strconv.Itoa(*l.DurationMins)+" min")
	}
	if n := deref(l.Notes); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, " · ")
}
