package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"scalectl/internal/cli"
	"scalectl/internal/reconciler"
)

func newGetCmd() *cobra.Command {
	var (
		flags cli.CommandFlags
		file  string
	)

	cmd := &cobra.Command{
		Use:   "get <server-url|id>",
		Short: "Show the registration of one server",
		Long: `Show the registration of one server. The server is given either by its id
or by its API URL, whose host is the id.`,
		Example: `  scalectl get bbb1.example.org
  scalectl get https://bbb1.example.org/bigbluebutton/api -o yaml`,
		Args: cobra.ExactArgs(1),
		// Errors are printed once by Execute, without the usage text.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := serverID(args[0])
			if err != nil {
				return err
			}

			client, err := connect(cmd, &flags, file)
			if err != nil {
				return err
			}

			progress := flags.Progress(cmd, "Looking up "+id+"...")
			server, err := client.GetServer(cmd.Context(), id)
			if err != nil {
				progress.Fail("Lookup failed")
				return err
			}
			progress.Stop()

			return flags.Printer(cmd).PrintServer(*server)
		},
	}

	cli.RegisterCommonFlags(cmd, &flags)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Desired-state YAML file to read the API settings from")
	return cmd
}

// serverID accepts a server id or a server API URL.
func serverID(arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return reconciler.IdentityFromURL(arg)
	}
	return strings.ToLower(arg), nil
}
