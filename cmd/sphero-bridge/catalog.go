package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spheroedu/bridge/pkg/catalog"
)

var catalogPath string

var catalogCmd = &cobra.Command{
	Use:   "catalog [droid]",
	Short: "List the droid animations and sounds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}
		droids := c.Droids()
		if len(args) == 1 {
			if _, err := c.Droid(args[0]); err != nil {
				return err
			}
			droids = args
		}
		printCatalog(cmd.OutOrStdout(), c, droids, len(args) == 0)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogPath, "file", "", "catalog file, defaults to the embedded catalog")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func printCatalog(w io.Writer, c *catalog.Catalog, droids []string, withSounds bool) {
	head := color.New(color.FgGreen, color.Bold)
	sub := color.New(color.FgCyan)

	for _, droid := range droids {
		head.Fprintf(w, "%s\n", droid)
		for _, category := range c.Categories(droid) {
			sub.Fprintf(w, "  %s\n", category)
			for _, name := range c.Animations(droid, category) {
				fmt.Fprintf(w, "    %s\n", name)
			}
		}
	}
	if !withSounds {
		return
	}
	head.Fprintf(w, "Sounds\n")
	for _, path := range c.Sounds() {
		fmt.Fprintf(w, "  %s\n", strings.Join(path, "."))
	}
}
