package main

import (
	"fmt"

	"github.com/spf13/cobra"

	identitysvcs "github.com/ghuser/possystem/services/identity/application/services"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage operator accounts",
}

// posctl user create --email a@b.c --name "Ana" --password secret
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an active operator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")

		a, cleanup, err := bootApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		u, err := identitysvcs.New(a).Auth.CreateUser(cmd.Context(), email, name, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().String("email", "", "login email")
	userCreateCmd.Flags().String("name", "", "display name")
	userCreateCmd.Flags().String("password", "", "initial password")
	for _, f := range []string{"email", "name", "password"} {
		_ = userCreateCmd.MarkFlagRequired(f)
	}
	userCmd.AddCommand(userCreateCmd)
}
