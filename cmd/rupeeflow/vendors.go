package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rupeeflow/rupeeflow/internal/cli"
)

func vendorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "List tracked vendors, their sender addresses, and extraction rules",
		RunE: func(_ *cobra.Command, _ []string) error {
			vendors := vendorMap()

			extractor, err := newExtractor()
			if err != nil {
				return err
			}
			rules := map[string]string{}
			for _, rs := range extractor.Vendors() {
				rules[rs.Vendor] = string(rs.Selection)
			}

			var b strings.Builder
			for _, label := range vendors.Labels() {
				selection, ok := rules[label]
				if !ok {
					selection = "generic"
				}
				b.WriteString(fmt.Sprintf("%-12s %s\n", label, cli.SubtleStyle.Render("("+selection+")")))
				for _, address := range vendors.Addresses(label) {
					b.WriteString(fmt.Sprintf("  %s\n", address))
				}
			}

			fmt.Println(cli.RenderBox("Tracked Vendors", strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}
