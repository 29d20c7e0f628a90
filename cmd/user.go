package cmd

import (
	"errors"
	"fmt"

	"github.com/loreycode/cms-api/internal/db"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
	"github.com/spf13/cobra"
)

var userFlags struct {
	email    string
	name     string
	password string
	role     string
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage administrator accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := db.Open(cmd.Context(), appConfig)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer conn.Close()

		users := services.NewUserService(store.NewUserRepository(conn))
		user, err := users.Create(cmd.Context(), userFlags.email, userFlags.name, userFlags.role, userFlags.password)
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				return fmt.Errorf("a user with email %s already exists", userFlags.email)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	f := userCreateCmd.Flags()
	f.StringVar(&userFlags.email, "email", "", "login email (required)")
	f.StringVar(&userFlags.name, "name", "", "display name (required)")
	f.StringVar(&userFlags.password, "password", "", "password, at least 6 characters (required)")
	f.StringVar(&userFlags.role, "role", types.RoleSuperAdmin, "ADMIN or SUPER_ADMIN")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("password")
}
