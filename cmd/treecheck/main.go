// Command treecheck reads and edits values inside JSON or YAML documents
// addressed by tree paths such as `.sprites[0].name`.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	treecheck "github.com/mlenders/treecheck"
	"github.com/mlenders/treecheck/fileio"
	"github.com/mlenders/treecheck/render"
)

var format string

func main() {
	root := &cobra.Command{
		Use:           "treecheck",
		Short:         "Inspect and edit JSON/YAML documents by tree path",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&format, "format", "auto", "document format: json, yaml or auto (by extension)")
	root.AddCommand(getCmd(), setCmd(), existsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "treecheck:", err)
		os.Exit(1)
	}
}

func getCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			p, err := treecheck.ParsePath(args[1])
			if err != nil {
				return err
			}
			value, err := p.GetInTree(doc)
			if err != nil {
				return err
			}
			if asJSON {
				data, err := gojson.MarshalIndent(value, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Render(value))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the value as JSON instead of the pretty form")
	return cmd
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Set the value at a path and rewrite the file",
		Long: "Set the value at a path and rewrite the file. The value is parsed " +
			"as JSON; anything that does not parse is taken as a plain string.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, kind, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			p, err := treecheck.ParsePath(args[1])
			if err != nil {
				return err
			}
			value := parseValue(args[2])
			if err := p.SetInTree(doc, value); err != nil {
				return err
			}
			return saveDocument(args[0], kind, doc)
		},
	}
}

func existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <file> <path>",
		Short: "Exit 0 when the path resolves, 1 when it does not",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			p, err := treecheck.ParsePath(args[1])
			if err != nil {
				return err
			}
			if p.ExistsInTree(doc) {
				fmt.Fprintln(cmd.OutOrStdout(), "true")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "false")
			os.Exit(1)
			return nil
		},
	}
}

// loadDocument reads a JSON or YAML file into a generic tree and reports
// which format was used.
func loadDocument(path string) (any, string, error) {
	kind := format
	if kind == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			kind = "yaml"
		default:
			kind = "json"
		}
	}
	var doc any
	switch kind {
	case "json":
		if err := fileio.ReadJSONFile(path, &doc); err != nil {
			return nil, "", err
		}
	case "yaml":
		if err := fileio.ReadYAMLFile(path, &doc); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", fmt.Errorf("unknown format %q (want json, yaml or auto)", format)
	}
	return doc, kind, nil
}

func saveDocument(path, kind string, doc any) error {
	if kind == "yaml" {
		return fileio.WriteYAMLFile(path, doc)
	}
	return fileio.WriteJSONFile(path, doc)
}

// parseValue interprets raw as JSON when possible so numbers, booleans, null
// and quoted strings round-trip; otherwise it is a bare string.
func parseValue(raw string) any {
	var v any
	if err := gojson.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
