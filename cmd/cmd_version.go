package cmd

import (
	"fmt"

	"github.com/pixelgrid-network/pixelgrid/common"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show pixelgrid version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println(common.Version)
			return nil
		},
	}
}
