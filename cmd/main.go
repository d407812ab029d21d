package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
)

var rootCmd = &cobra.Command{
	Use:   "sos-moderator",
	Short: "sos-moderator gates inbound civic alerts through moderation before dispatch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cmd.Short)
	},
}

func init() {
	configs.Load()
	rootCmd.AddCommand(apiServerCmd)
	rootCmd.AddCommand(asynqWorkerCmd)
	rootCmd.AddCommand(dispatchSweeperCmd)
	rootCmd.AddCommand(migrateUpCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err.Error())
	}
}
