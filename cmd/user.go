package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/advisor-match/internal/identity"
	"github.com/sells-group/advisor-match/internal/model"
)

var (
	userEmail    string
	userName     string
	userRole     string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an advisor or consumer account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		password := userPassword
		if password == "" {
			password = os.Getenv("ADVISOR_USER_PASSWORD")
		}
		if password == "" {
			return eris.New("password is required (--password or ADVISOR_USER_PASSWORD)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}

		p := identity.NewStoreProvider(st, cfg.Auth.SessionTTL())
		u, err := p.Register(ctx, userEmail, userName, password, model.Role(userRole))
		if err != nil {
			return err
		}

		zap.L().Info("user created",
			zap.String("id", u.ID),
			zap.String("email", u.Email),
			zap.String("role", string(u.Role)),
		)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email (required)")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userRole, "role", "consumer", "advisor or consumer")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "account password (or ADVISOR_USER_PASSWORD)")
	_ = userCreateCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
