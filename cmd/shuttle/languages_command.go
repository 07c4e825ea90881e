package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shuttle/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List supported translation languages",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			all := language.All()
			rows := make([][]string, 0, len(all))
			for _, info := range all {
				rows = append(rows, []string{info.Code2, info.Code3, info.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "ISO 639-2", "Language"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
