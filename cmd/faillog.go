/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/numpanel/apiserver/config"
	"github.com/numpanel/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// faillogCmd prints the failed-login audit log. The server only appends
// to this log; reading it is a maintenance task.
var faillogCmd = &cobra.Command{
	Use:   "faillog",
	Short: "Show the failed-login audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := store.NewFailedLoginRepository(st).List()
		if err != nil {
			return err
		}
		for _, rec := range records {
			fmt.Printf("%s\t%s\t%s\n", rec.Time.Format(time.RFC3339), rec.Username, rec.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(faillogCmd)
}
