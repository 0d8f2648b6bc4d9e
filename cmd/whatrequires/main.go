package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/frederic-klein/whatrequires/internal/finder"
	"github.com/frederic-klein/whatrequires/internal/metadata"
	"github.com/frederic-klein/whatrequires/internal/render"
	"github.com/frederic-klein/whatrequires/internal/verspec"
)

var (
	targetVersion string
	versionSearch bool
	siteDirs      []string
	format        string
	verbose       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "whatrequires",
		Short:         "Find which installed Python distributions depend on a package",
		Long:          "whatrequires scans the installed package metadata of a Python environment and lists every distribution that declares a dependency on a given package, optionally narrowed to requirements compatible with a specific version.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	findCmd := &cobra.Command{
		Use:   "find <package>",
		Short: "List installed distributions that require <package>",
		Args:  cobra.ExactArgs(1),
		RunE:  runFind,
	}

	findCmd.Flags().StringVarP(&targetVersion, "target-version", "t", "", "Only list dependents whose specifier admits this version (e.g. 1.26.0)")
	findCmd.Flags().BoolVar(&versionSearch, "version-search", false, "Enable version-filtered search")
	findCmd.Flags().StringArrayVarP(&siteDirs, "site", "s", nil, "site-packages directory to scan (repeatable; autodetected when omitted)")
	findCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	findCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(findCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFind(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	dirs := siteDirs
	if len(dirs) == 0 {
		detected, err := metadata.DetectSitePackages()
		if err != nil {
			logger.Error("Could not locate site-packages.", "err", err)
			return err
		}
		dirs = detected
		logger.Debug("autodetected site-packages", "dirs", dirs)
	}

	r, err := render.New(format, cmd.OutOrStdout())
	if err != nil {
		logger.Error(err.Error())
		return err
	}

	f := finder.New(metadata.NewDirIndex(dirs...), verspec.New(), logger)
	res, err := f.Find(finder.Query{
		Package:       args[0],
		TargetVersion: targetVersion,
		VersionSearch: versionSearch,
	})
	if err != nil {
		var verr *finder.InvalidVersionError
		switch {
		case errors.Is(err, finder.ErrEmptyQuery):
			logger.Warn("Please enter a package name.")
		case errors.As(err, &verr):
			logger.Error(fmt.Sprintf("Invalid version format: '%s'. Please use format like '1.2.3'.", verr.Input))
		default:
			logger.Error(err.Error())
		}
		return err
	}

	if res.Malformed > 0 {
		logger.Debug("skipped malformed requirement strings", "count", res.Malformed)
	}
	return r.Render(res)
}
