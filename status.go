package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/xcfill/i18n"
	"github.com/minios-linux/xcfill/xcstrings"
)

// ---------------------------------------------------------------------------
// status (read-only: catalog info + per-language coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var a fillArgs

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-language coverage of a string catalog",
		Long: `Show the source language, entry counts and per-language translation
coverage of an .xcstrings file. Uses the configured target languages, or
every language found in the catalog when none are configured. Does not
modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(a)
		},
	}

	cmd.Flags().StringVarP(&a.file, "file", "f", "", "Path to the .xcstrings file (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().StringVar(&a.langs, "lang", "", "Languages to report, comma-separated")
	cmd.Flags().StringVar(&a.sourceLang, "source-lang", "", "Source language code (default en)")
	cmd.Flags().StringVar(&a.configPath, "config", "", "Config file")

	return cmd
}

func runStatus(a fillArgs) error {
	cfg, err := loadConfig(a)
	if err != nil {
		return err
	}

	cat, err := xcstrings.Load(a.file)
	if err != nil {
		return describeRunError(err, a.file)
	}

	translatable, stats := cat.Coverage(cfg.SourceLang, cfg.Languages)

	fmt.Fprintf(logOut, "\n%s\n", colorInfo.Sprint(a.file))
	fmt.Fprintln(logOut, strings.Repeat("─", 60))
	if sl := cat.SourceLanguage(); sl != "" {
		fmt.Fprintf(logOut, "  %-22s %s\n", i18n.T("Catalog source:"), langLabel(sl))
	}
	if v := cat.Version(); v != "" {
		fmt.Fprintf(logOut, "  %-22s %s\n", i18n.T("Format version:"), v)
	}
	fmt.Fprintf(logOut, "  %-22s %d\n", i18n.T("Entries:"), cat.Len())
	fmt.Fprintf(logOut, "  %-22s %d (%s)\n", i18n.T("Translatable:"), translatable, cfg.SourceLang)
	fmt.Fprintln(logOut)

	if len(stats) == 0 {
		logInfo("%s", i18n.T("No target languages configured or found"))
		return nil
	}

	missing := 0
	for _, s := range stats {
		missing += s.Missing
		pct := fmt.Sprintf("%3d%%", s.Percent())
		switch {
		case s.Missing == 0:
			pct = colorSuccess.Sprint(pct)
		case s.Present == 0:
			pct = colorError.Sprint(pct)
		default:
			pct = colorWarning.Sprint(pct)
		}
		fmt.Fprintf(logOut, "  %-32s %s  %d/%d\n", langLabel(s.Lang), pct, s.Present, s.Present+s.Missing)
	}
	fmt.Fprintln(logOut)

	if missing == 0 {
		logSuccess("%s", i18n.T("All configured languages are complete"))
	} else {
		logInfo(i18n.N("%d translation missing, run xcfill -f %s to fill", "%d translations missing, run xcfill -f %s to fill", missing), missing, a.file)
	}
	return nil
}
