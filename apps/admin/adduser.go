package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stratosedge/portal/core/account"
)

func (cli *commandLine) addUserCmd() *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "adduser --email EMAIL [--name NAME]",
		Short: "Create an account, or reset the password of an existing one. The password is prompted next.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				_ = cmd.Usage()
				return errHelp
			}
			pwd, err := cli.promptPassword(cmd)
			if err != nil {
				return err
			}
			return cli.addUser(email, name, pwd)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "The account's email.")
	cmd.Flags().StringVar(&name, "name", "", "The account's display name.")
	return cmd
}

// addUser creates an account or updates the password of an existing one.
func (cli *commandLine) addUser(email, name, pwd string) error {
	ctx := context.Background()
	acc, err := cli.accSvc.Create(ctx, account.NewAccount{Email: email, Password: pwd, DisplayName: name})
	if err != nil {
		if aErr, ok := errors.Cause(err).(*account.Error); !ok || aErr.Code != account.CodeEmailInUse {
			return err
		}
		if acc, err = cli.accSvc.ResetPassword(ctx, email, pwd); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Account %s already exists: password updated.\n", acc.Email)
		return nil
	}
	fmt.Fprintf(cli.out, "Account %s created (%s).\n", acc.Email, acc.ID)
	return nil
}
