package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"scalectl/internal/cli"
)

func newListCmd() *cobra.Command {
	var (
		flags cli.CommandFlags
		file  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all servers registered in Scalelite",
		Long: `List all servers registered in Scalelite, sorted by id.

Secrets are redacted unless --show-secrets is given.`,
		Example: `  scalectl list
  scalectl list -o json | jq '.[] | select(.state == "cordoned") | .id'`,
		Args: cobra.NoArgs,
		// Errors are printed once by Execute, without the usage text.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect(cmd, &flags, file)
			if err != nil {
				return err
			}

			progress := flags.Progress(cmd, "Listing servers...")
			servers, err := client.ListServers(cmd.Context())
			if err != nil {
				progress.Fail("Failed to list servers")
				return err
			}
			progress.Stop()

			sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
			return flags.Printer(cmd).PrintServers(servers)
		},
	}

	cli.RegisterCommonFlags(cmd, &flags)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Desired-state YAML file to read the API settings from")
	return cmd
}
