package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bnema/dumbtile/internal/application/usecase"
	"github.com/bnema/dumbtile/internal/cli/model"
	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/infrastructure/layoutfile"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

var (
	layoutProfile string
	showWidth     int
	showHeight    int
	showJSON      bool
	exportFormat  string
	exportOutput  string
	importName    string
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect, import and export layouts",
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the flattened layout of a profile",
	Long: `Flatten a profile into rectangles and print them, either as a sketch and a
table or as JSON. The size defaults to the current terminal, else 80x24.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		w, h := showWidth, showHeight
		if w <= 0 || h <= 0 {
			tw, th := terminalSize()
			if w <= 0 {
				w = tw
			}
			if h <= 0 {
				h = th
			}
		}
		return showLayout(app.Ctx(), cmd.OutOrStdout(), app.Screen, layoutProfile, w, h, showJSON)
	},
}

var layoutExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a profile as a layout file",
	Long: `Encode a profile as YAML, JSON or CBOR. The output can be dropped into the
profiles directory (YAML, JSON) or re-imported with 'layout import'.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		format, err := layoutfile.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}
		return exportLayout(out, app.Screen, layoutProfile, format)
	},
}

var layoutImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a layout file as a profile",
	Long: `Read a YAML, JSON, JSONC or CBOR layout file and store it. The stored copy
replaces any profile of the same name, including the built-in ones.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		return importLayout(app.Ctx(), cmd.OutOrStdout(), app.Screen, args[0], importName)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutShowCmd, layoutExportCmd, layoutImportCmd)

	layoutCmd.PersistentFlags().StringVarP(&layoutProfile, "profile", "p", "", "profile (default: the active one)")

	layoutShowCmd.Flags().IntVar(&showWidth, "width", 0, "viewport width in cells")
	layoutShowCmd.Flags().IntVar(&showHeight, "height", 0, "viewport height in cells")
	layoutShowCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")

	layoutExportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(layoutfile.FormatYAML), "yaml, json or cbor")
	layoutExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")

	layoutImportCmd.Flags().StringVar(&importName, "name", "", "profile name (default: the file's name)")
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallbackWidth, fallbackHeight
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}

// layoutView is the JSON form of 'layout show'.
type layoutView struct {
	Profile string                 `json:"profile"`
	Width   int                    `json:"width"`
	Height  int                    `json:"height"`
	Panes   []entity.PaneFlattened `json:"panes"`
}

func showLayout(ctx context.Context, w io.Writer, uc *usecase.ManageScreenUseCase, profile string, width, height int, asJSON bool) error {
	if profile != "" {
		if err := uc.SwitchProfile(ctx, profile); err != nil {
			return err
		}
	}
	area := entity.NewRect(0, 0, width, height)
	uc.Resize(ctx, area)
	entries := uc.Layout(area)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(layoutView{
			Profile: uc.Screen().ActiveProfile(),
			Width:   width,
			Height:  height,
			Panes:   entries,
		})
	}

	if _, err := fmt.Fprintln(w, model.Sketch(entries, width, height)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVIEW\tX\tY\tW\tH\tFOCUSED")
	for _, p := range entries {
		focused := ""
		if p.Focused {
			focused = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n", p.ID, p.View, p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, focused)
	}
	return tw.Flush()
}

func exportLayout(w io.Writer, uc *usecase.ManageScreenUseCase, profile string, format layoutfile.Format) error {
	if profile == "" {
		profile = uc.Screen().ActiveProfile()
	}
	root, err := uc.ExportProfile(profile)
	if err != nil {
		return err
	}
	return layoutfile.Encode(w, &layoutfile.File{
		Name:   entity.NormalizeProfileName(profile),
		Layout: root,
	}, format)
}

func importLayout(ctx context.Context, w io.Writer, uc *usecase.ManageScreenUseCase, path, name string) error {
	f, err := layoutfile.ReadFile(path)
	if err != nil {
		return err
	}
	if name != "" {
		f.Name = name
	}
	name = entity.NormalizeProfileName(f.Name)

	stored, err := uc.ImportProfile(ctx, name, f.Layout)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	state := "unchanged"
	if stored {
		state = "stored"
	}
	_, err = fmt.Fprintf(w, "%s: %d panes, %s\n", name, f.Layout.LeafCount(), state)
	return err
}
