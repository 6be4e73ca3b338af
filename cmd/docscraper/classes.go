// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Courage-7/DocumentScrapper/internal/classes"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the configured document classes",
	RunE:  runClasses,
}

func init() {
	classesCmd.Flags().String("category", "", "only show classes in this category")

	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, _ []string) error {
	classesFile, _ := cmd.Flags().GetString("classes-file")
	registry, err := classes.Load(classesFile)
	if err != nil {
		return fmt.Errorf("loading document classes: %w", err)
	}

	category, _ := cmd.Flags().GetString("category")
	var list []types.DocumentClass
	if category != "" {
		list = registry.ByCategory(category)
	} else {
		list = registry.All()
	}
	if len(list) == 0 {
		fmt.Println("No document classes found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Category", "File Types", "Patterns", "Limit"})
	for _, c := range list {
		t.AppendRow(table.Row{
			c.ID, c.Name, c.Category,
			strings.Join(c.AcceptedFileTypes, ","),
			len(c.SearchPatterns), c.Limit,
		})
	}
	t.Render()
	return nil
}
