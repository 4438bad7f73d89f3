package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the hiring stages in board order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.registry()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, registry.Len())
			for i, s := range registry.Stages() {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					s.ID,
					s.Label,
					s.Color,
					s.Icon,
					yesNo(s.Destructive),
				})
			}
			headers := []string{"#", "ID", "Label", "Color", "Icon", "Destructive"}
			fmt.Fprintln(cmd.OutOrStdout(), tableSpec{Headers: headers, Rows: rows, Right: []int{0}})
			return nil
		},
	}
}
