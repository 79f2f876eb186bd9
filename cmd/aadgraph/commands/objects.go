package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewObjectsCommand creates the objects command.
func NewObjectsCommand() *cobra.Command {
	var columns string

	cmd := &cobra.Command{
		Use:   "objects PATH TYPE [ARG...]",
		Short: "Collect every object of a type from a paged collection",
		Long: `Follow odata.nextLink from PATH to the last page and print the objects whose
objectType equals TYPE. Use "" as TYPE to keep every object. {0}, {1}, ... in PATH
are replaced by the arguments after TYPE.`,
		Example: `  aadgraph objects 'users/{0}/memberOf' Group alice@contoso.onmicrosoft.com
  aadgraph objects 'groups/{0}/members' User GROUP_ID --columns objectId,userPrincipalName`,
		Args: cobra.MinimumNArgs(2), //nolint:mnd // PATH and TYPE
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			client, logger, err := createClient(cmd)
			if err != nil {
				return err
			}

			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			path := resourcePath(append([]string{args[0]}, args[2:]...))

			objects, err := client.Collect(ctx, path, args[1])
			if err != nil {
				return fmt.Errorf("failed to collect %s objects: %w", args[1], err)
			}

			return renderObjects(cmd.OutOrStdout(), objects, parseColumns(columns), format)
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "comma separated fields for table output (default objectType,objectId,displayName)")

	return cmd
}
