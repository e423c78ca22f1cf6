package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"battlog/pkg/installer"
	"battlog/pkg/platform"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	targetDir := ""

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Download platform-tools and install adb here",
		GroupID: gInstallation,
		Long: `Download the vendor platform-tools archive for this OS and place the adb
and fastboot executables in the current directory.

Repeated runs converge to the same end state: any leftover archive,
extraction directory, or previously installed executables are removed
before downloading. The downloaded archive and the extraction directory
are deleted afterwards, whether the install succeeded or not.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := platform.Current()
			if err != nil {
				return err
			}
			logrus.Infof("detected operating system: %s", spec.OS)

			dir := targetDir
			if dir == "" {
				if dir, err = os.Getwd(); err != nil {
					return fmt.Errorf("failed to get working directory: %v", err)
				}
			}

			if err := installer.New(dir, spec).Run(cmd.Context()); err != nil {
				return err
			}

			cmd.Printf("adb and fastboot are now available in %s. Add this directory to your PATH for easier access.\n", dir)

			return nil
		},
	}

	cmd.Flags().StringVar(&targetDir, "dir", "", "Directory to install the executables into (defaults to the working directory).")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	targetDir := ""

	cmd := &cobra.Command{
		Use:     "uninstall",
		Short:   "Remove the installed platform-tools executables",
		GroupID: gInstallation,
		Long: `Remove the adb and fastboot executables that "battlog install" placed in
the current directory, along with any leftover archive or extraction
directory from an interrupted install.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := platform.Current()
			if err != nil {
				return err
			}

			dir := targetDir
			if dir == "" {
				if dir, err = os.Getwd(); err != nil {
					return fmt.Errorf("failed to get working directory: %v", err)
				}
			}

			if err := installer.Uninstall(dir, spec); err != nil {
				return err
			}

			fmt.Println("successfully uninstalled")

			return nil
		},
	}

	cmd.Flags().StringVar(&targetDir, "dir", "", "Directory to remove the executables from (defaults to the working directory).")

	return cmd
}
