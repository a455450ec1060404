/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/numpanel/apiserver/config"
	"github.com/numpanel/apiserver/internal/services"
	"github.com/numpanel/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// userCmd groups offline account maintenance. The server must not be
// running against the same database file while these run.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts in the local credential store",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username> <password> [role]",
	Short: "Create an account",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserService(func(users *services.UserService) error {
			role := ""
			if len(args) == 3 {
				role = args[2]
			}
			user, err := users.Create(args[0], args[1], role)
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s)\n", user.Username, user.Role)
			return nil
		})
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserService(func(users *services.UserService) error {
			if err := users.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserService(func(users *services.UserService) error {
			all, err := users.List()
			if err != nil {
				return err
			}
			for _, u := range all {
				fmt.Printf("%s\t%s\n", u.Username, u.Role)
			}
			return nil
		})
	},
}

func withUserService(fn func(*services.UserService) error) error {
	cfg := config.LoadConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	users := services.NewUserService(store.NewUserRepository(st), store.NewFailedLoginRepository(st))
	return fn(users)
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userListCmd)
}
