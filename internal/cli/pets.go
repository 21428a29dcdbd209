package cli

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"pet-care-log/internal/domain/mutations"
	"pet-care-log/internal/domain/pets"

	"github.com/spf13/cobra"
)

const emptyRosterPrompt = "No pets yet. Add your first pet with `petlog pets add --name <name> --species <species>`."

func NewPetsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pets",
		Short: "List and register pets",
	}
	cmd.AddCommand(newPetsListCommand(rootOpts))
	cmd.AddCommand(newPetsAddCommand(rootOpts))
	return cmd
}

func newPetsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your pets (newest first); * marks the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			items := a.dash.Roster.Pets()
			active, _ := a.dash.Roster.Active()

			out := make([]pets.PetResponse, 0, len(items))
			for _, p := range items {
				out = append(out, pets.ToResponse(p))
			}
			return a.out.Success(out, func(w io.Writer) {
				if len(items) == 0 {
					fmt.Fprintln(w, emptyRosterPrompt)
					return
				}
				writePets(w, items, active.ID)
			})
		},
	}
}

// PetsAddOptions son los flags de `pets add`.
type PetsAddOptions struct {
	*RootOptions
	Name        string
	Species     string
	Breed       string
	DateOfBirth string
	Notes       string
	Photo       string
}

func newPetsAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PetsAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new pet",
		Long: `Register a new pet. Species: dog, cat, bird, rabbit, other.

Example:
  petlog pets add --name Buddy --species dog --breed Beagle --dob 2020-05-01 --photo buddy.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return addPet(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "pet name (required)")
	cmd.Flags().StringVar(&opts.Species, "species", "", "dog|cat|bird|rabbit|other (required)")
	cmd.Flags().StringVar(&opts.Breed, "breed", "", "breed")
	cmd.Flags().StringVar(&opts.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "notes")
	cmd.Flags().StringVar(&opts.Photo, "photo", "", "path to a photo to upload")

	return cmd
}

func addPet(cmd *cobra.Command, opts *PetsAddOptions) error {
	form := mutations.PetForm{
		Name:        opts.Name,
		Species:     opts.Species,
		Breed:       opts.Breed,
		DateOfBirth: opts.DateOfBirth,
		Notes:       opts.Notes,
	}

	if opts.Photo != "" {
		f, err := os.Open(opts.Photo)
		if err != nil {
			return WrapExitError(ExitCommandError, "open photo", err)
		}
		defer f.Close()
		form.Photo = &mutations.Photo{
			FileName:    filepath.Base(opts.Photo),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(opts.Photo))),
			Body:        f,
		}
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.dash.Mutations.CreatePet(cmd.Context(), form)
	if err != nil {
		return commandErr("add pet", err)
	}

	return a.out.Success(pets.ToResponse(p), func(w io.Writer) {
		writePets(w, []pets.Pet{p}, "")
	})
}

func writePets(w io.Writer, items []pets.Pet, activeID string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tSPECIES\tBREED\tBORN\tID")
	for _, p := range items {
		mark := ""
		if p.ID == activeID {
			mark = "*"
		}
		born := ""
		if p.DateOfBirth != nil {
			born = p.DateOfBirth.Format(pets.DateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", mark, p.Name, p.Species, deref(p.Breed), born, p.ID)
	}
	_ = tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
