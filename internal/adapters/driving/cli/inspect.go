package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmeconv/internal/core/ports/driving"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xml>",
	Short: "Show detected encoding and dialect",
	Long: `Reports the encoding, XML declaration, dialect verdict and namespaces
of a file without writing any output.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(inspectCmd)
}

// inspectView is the printable form of an inspection.
type inspectView struct {
	File             string   `json:"file"`
	Encoding         string   `json:"encoding"`
	TrialEncoding    string   `json:"trial_encoding"`
	DeclaredEncoding string   `json:"declared_encoding,omitempty"`
	XMLVersion       string   `json:"xml_version,omitempty"`
	Standalone       string   `json:"standalone,omitempty"`
	Dialect          string   `json:"dialect"`
	Doctype          string   `json:"doctype,omitempty"`
	CatalogTag       string   `json:"catalog_tag,omitempty"`
	CatalogVersion   string   `json:"catalog_version,omitempty"`
	Namespaces       []string `json:"namespaces,omitempty"`
	ParseError       string   `json:"parse_error,omitempty"`
}

func newInspectView(path string, in *driving.Inspection) inspectView {
	v := inspectView{
		File:           path,
		Encoding:       in.Encoding.Name,
		TrialEncoding:  in.Encoding.Trial,
		Dialect:        in.Verdict.Dialect(),
		Doctype:        in.Verdict.DoctypeTag,
		CatalogTag:     in.Verdict.CatalogTag,
		CatalogVersion: in.Verdict.CatalogVersion,
		Namespaces:     in.Namespaces,
	}
	if p := in.Encoding.Prolog; p != nil {
		v.XMLVersion = p.Version
		v.DeclaredEncoding = p.DeclaredEncoding
		v.Standalone = string(p.Standalone)
	}
	if in.ParseErr != nil {
		v.ParseError = in.ParseErr.Error()
	}
	return v
}

func runInspect(cmd *cobra.Command, args []string) error {
	if conversion == nil {
		return errors.New("conversion service not configured")
	}

	inspection, err := conversion.Inspect(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}
	view := newInspectView(args[0], inspection)

	if inspectJSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal inspection: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("File:        %s\n", view.File)
	cmd.Printf("Encoding:    %s (decoded as %s)\n", view.Encoding, view.TrialEncoding)
	if view.XMLVersion != "" {
		cmd.Printf("Declaration: version %s", view.XMLVersion)
		if view.DeclaredEncoding != "" {
			cmd.Printf(", encoding %s", view.DeclaredEncoding)
		}
		if view.Standalone != "" {
			cmd.Printf(", standalone %s", view.Standalone)
		}
		cmd.Println()
	} else {
		cmd.Println("Declaration: none")
	}
	cmd.Printf("Dialect:     %s\n", view.Dialect)
	if view.CatalogVersion != "" {
		cmd.Printf("Version:     %s\n", view.CatalogVersion)
	}
	if view.Doctype != "" {
		cmd.Printf("Doctype:     %s\n", view.Doctype)
	}
	for _, ns := range view.Namespaces {
		cmd.Printf("Namespace:   %s\n", ns)
	}
	if view.ParseError != "" {
		cmd.Printf("Parse error: %s\n", view.ParseError)
	} else {
		cmd.Println("Well formed: yes")
	}
	return nil
}
