package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frederic-klein/yanm/internal/config"
	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/downloader"
	"github.com/frederic-klein/yanm/internal/extractor"
	"github.com/frederic-klein/yanm/internal/index"
	"github.com/frederic-klein/yanm/internal/installer"
	"github.com/frederic-klein/yanm/internal/logx"
	"github.com/frederic-klein/yanm/internal/manager"
	"github.com/frederic-klein/yanm/internal/progress"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the global flags and builds the components each command needs.
type app struct {
	dir       string
	mirror    string
	verbosity int
	workDir   string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "yanm",
		Short:         "Yet Another Node Manager - installs and switches Node.js versions",
		Long:          "YANM resolves Node.js version specifiers against the official release index, installs releases side by side and switches the active one.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.dir, "dir", "", "Root directory (default $"+config.RootEnv+" or ~/.yanm)")
	rootCmd.PersistentFlags().StringVarP(&a.mirror, "mirror", "m", "", "Node.js distribution mirror URL")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Verbose output (repeat for debug)")

	rootCmd.AddCommand(
		a.installCmd(),
		a.useCmd(),
		a.listCmd(),
		a.aliasCmd(),
		a.unaliasCmd(),
		a.currentCmd(),
		a.localCmd(),
		a.whichCmd(),
		a.uninstallCmd(),
		a.upgradeCmd(),
	)
	return rootCmd
}

// manager wires configuration, transport and storage into a Manager.
func (a *app) manager() (*manager.Manager, error) {
	log := logx.New(a.stderr, a.verbosity)

	paths, err := config.ResolvePaths(a.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dist.ErrConfig, err)
	}
	settings, err := a.settings(paths)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: settings.HTTPTimeout}
	catalog := index.NewCatalog(settings.Mirror, client, log)
	log.Debug("configuration", "root", paths.Root, "mirror", catalog.Mirror(), "workers", settings.DownloadWorkers)

	dl := downloader.NewDownloader(settings.DownloadWorkers, paths.DownloadsDir, client, log)
	if progress.IsTerminal(a.stderr) {
		reporter := progress.New(a.stderr, true)
		dl.OnProgress(reporter.Update)
	}

	inst := installer.New(catalog, dl, extractor.NewExtractor(log), paths.VersionsDir, installer.Options{
		Platform:        dist.CurrentPlatform(),
		VerifyChecksums: settings.Verify(),
	}, log)

	workDir := a.workDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("%w: getting working directory: %v", dist.ErrSystem, err)
		}
	}

	return manager.New(manager.Options{
		Paths:     paths,
		Catalog:   catalog,
		Installer: inst,
		WorkDir:   workDir,
		Logger:    log,
	}), nil
}

func (a *app) settings(paths config.Paths) (config.Settings, error) {
	settings, err := config.Load(paths.SettingsFile)
	if err != nil {
		return config.Settings{}, err
	}
	if a.mirror != "" {
		settings.Mirror = strings.TrimSuffix(strings.TrimSpace(a.mirror), "/")
		if err := settings.Validate(); err != nil {
			return config.Settings{}, err
		}
	}
	return settings, nil
}

// printf writes a user-facing result line.
func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format+"\n", args...)
}

// styled reports whether list output may carry terminal styling.
func (a *app) styled() bool {
	return progress.IsTerminal(a.stdout)
}
