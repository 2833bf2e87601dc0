package cli

import (
	"fmt"
	"strings"

	auth "darkitchen/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
)

// スタッフのアカウント管理は無いので、運用者がここでトークンを発行する
func newIssueTokenCmd(load loader) *cobra.Command {
	var (
		subject int64
		role    string
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print a signed access token for a staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := auth.ParseRole(strings.ToUpper(strings.TrimSpace(role)))
			if !ok {
				return fmt.Errorf("unknown role %q (valid: ADMIN, CHEF, DRIVER, CLIENT)", role)
			}
			if subject <= 0 {
				return fmt.Errorf("--sub must be positive")
			}

			cfg, _, err := load()
			if err != nil {
				return err
			}

			token, exp, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL).Issue(subject, r, auth.SystemClock{}.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", exp.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().Int64Var(&subject, "sub", 0, "staff id stored in the sub claim")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleAdmin), "ADMIN, CHEF or DRIVER")
	return cmd
}
