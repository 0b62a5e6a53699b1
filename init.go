package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minios-linux/xcfill/config"
	"github.com/minios-linux/xcfill/i18n"
)

// ---------------------------------------------------------------------------
// init (write a starter .xcfill.yaml)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		path      string
		langs     string
		projectID string
		provider  string
		model     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.FileName,
		Long: `Write a ` + config.FileName + ` file with the target languages and provider
settings, so later runs only need --file. Refuses to overwrite an existing
file. API keys are never written; use 'xcfill auth login' instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{
				ProjectID: projectID,
				Languages: config.ParseLanguageList(langs),
				Provider:  provider,
				Model:     model,
			}
			if err := config.WriteFile(path, cfg); err != nil {
				if errors.Is(err, os.ErrExist) {
					return fmt.Errorf(i18n.T("%s already exists"), path)
				}
				return err
			}
			logSuccess(i18n.T("Wrote %s"), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "output", config.FileName, "Config file to write")
	cmd.Flags().StringVar(&langs, "lang", "", "Target languages, comma-separated")
	cmd.Flags().StringVar(&projectID, "project-id", "", "Google Cloud project ID")
	cmd.Flags().StringVar(&provider, "provider", "", "Translation provider")
	cmd.Flags().StringVar(&model, "model", "", "Model name (AI providers)")

	return cmd
}
