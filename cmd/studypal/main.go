package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"studypal/config"
	srv "studypal/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	root := &cobra.Command{Use: "studypal"}
	root.AddCommand(serveCMD())
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCMD() *cobra.Command {
	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return serve
}
