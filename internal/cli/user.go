package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/kanzlei/internal/auth"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/storage/sqlite"
)

func newUserCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd(opts))
	return cmd
}

// newUserCreateCmd creates accounts directly in the database, e.g. the first
// admin or advisors, whose roles cannot be chosen through self-registration.
func newUserCreateCmd(opts *options) *cobra.Command {
	var email, name, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Example: `  kanzlei user create --email admin@kanzlei.de --name "Eva Admin" --role admin
  KANZLEI_PASSWORD=geheim123 kanzlei user create --email anna@kanzlei.de --name "Anna Schmidt" --role advisor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("KANZLEI_PASSWORD")
			}
			if email == "" || name == "" {
				return errors.New("--email and --name are required")
			}

			store, err := sqlite.New(opts.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			user, err := auth.NewPasswordAuthenticator(store).Register(cmd.Context(), auth.Registration{
				Email:    email,
				Name:     name,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (default $KANZLEI_PASSWORD)")
	cmd.Flags().StringVar(&role, "role", models.RoleUser, "user, advisor or admin")
	return cmd
}
