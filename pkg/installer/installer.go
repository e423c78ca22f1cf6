// Package installer downloads the vendor platform-tools archive and
// places the adb and fastboot executables in a target directory.
package installer

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"battlog/pkg/platform"
)

const (
	archiveName = "platform-tools.zip"
	extractName = "platform-tools"
)

type Installer struct {
	// Dir is where the executables end up, usually the working directory.
	Dir    string
	Spec   platform.Spec
	Client *http.Client
}

func New(dir string, spec platform.Spec) *Installer {
	return &Installer{
		Dir:    dir,
		Spec:   spec,
		Client: http.DefaultClient,
	}
}

// Run performs a full install: clean slate, download, extract, relocate
// adb and fastboot, verify. The downloaded archive and the extraction
// directory are removed on every exit path; those removals are
// best-effort and never fatal.
func (i *Installer) Run(ctx context.Context) error {
	if err := i.cleanSlate(); err != nil {
		return err
	}

	archivePath := filepath.Join(i.Dir, archiveName)
	extractPath := filepath.Join(i.Dir, extractName)

	defer func() {
		if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("failed to remove %s: %v", archivePath, err)
		}
		if err := os.RemoveAll(extractPath); err != nil {
			logrus.Warnf("failed to remove %s: %v", extractPath, err)
		}
	}()

	logrus.Infof("downloading platform-tools from %s", i.Spec.DownloadURL)
	if err := i.download(ctx, archivePath); err != nil {
		return pkgerrors.Wrap(err, "download error")
	}

	logrus.Infof("extracting %s to %s", archivePath, extractPath)
	if err := extract(archivePath, extractPath); err != nil {
		return pkgerrors.Wrap(err, "extraction error")
	}

	toolsDir, err := locateToolsDir(extractPath, i.Spec.ADBName())
	if err != nil {
		return err
	}

	for _, name := range []string{i.Spec.ADBName(), i.Spec.FastbootName()} {
		if err := i.relocate(toolsDir, name); err != nil {
			return err
		}
	}

	adbPath := filepath.Join(i.Dir, i.Spec.ADBName())
	if _, err := os.Stat(adbPath); err != nil {
		return pkgerrors.Wrapf(err, "%s is missing after install", adbPath)
	}

	logrus.Infof("installed %s and %s to %s", i.Spec.ADBName(), i.Spec.FastbootName(), i.Dir)
	return nil
}

// Uninstall removes the installed executables and any leftover install
// artifacts. Missing files are not an error, so repeated runs converge.
func Uninstall(dir string, spec platform.Spec) error {
	if err := os.RemoveAll(filepath.Join(dir, extractName)); err != nil {
		return pkgerrors.Wrapf(err, "failed to remove %s directory", extractName)
	}

	for _, name := range []string{archiveName, spec.ADBName(), spec.FastbootName()} {
		path := filepath.Join(dir, name)
		err := os.Remove(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to remove %s", path)
		}
		logrus.Infof("removed %s", path)
	}

	return nil
}

// cleanSlate removes whatever a previous run may have left behind, so
// install is idempotent.
func (i *Installer) cleanSlate() error {
	if err := os.RemoveAll(filepath.Join(i.Dir, extractName)); err != nil {
		return pkgerrors.Wrapf(err, "failed to remove pre-existing %s directory", extractName)
	}

	for _, name := range []string{i.Spec.ADBName(), i.Spec.FastbootName()} {
		path := filepath.Join(i.Dir, name)
		err := os.Remove(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to remove pre-existing %s", path)
		}
		logrus.Infof("removed pre-existing %s", path)
	}

	return nil
}

func (i *Installer) download(ctx context.Context, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.Spec.DownloadURL, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to build request")
	}

	resp, err := i.Client.Do(req)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to fetch %s", i.Spec.DownloadURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		return pkgerrors.Errorf("unexpected status %s fetching %s", resp.Status, i.Spec.DownloadURL)
	}

	fp, err := os.Create(dest)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", dest)
	}

	if _, err := io.Copy(fp, resp.Body); err != nil {
		_ = fp.Close()
		return pkgerrors.Wrapf(err, "failed to write %s", dest)
	}

	return pkgerrors.Wrapf(fp.Close(), "failed to close %s", dest)
}

func extract(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return pkgerrors.Wrapf(err, "%s is not a valid zip archive", archivePath)
	}
	defer func() {
		_ = r.Close()
	}()

	for _, f := range r.File {
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, dest string) error {
	path := filepath.Join(dest, f.Name)

	// Guard against zip-slip: every entry must stay inside dest.
	if path != dest && !strings.HasPrefix(path, dest+string(os.PathSeparator)) {
		return pkgerrors.Errorf("archive entry %q escapes the extraction directory", f.Name)
	}

	if f.FileInfo().IsDir() {
		return pkgerrors.Wrapf(os.MkdirAll(path, 0755), "failed to create %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", filepath.Dir(path))
	}

	src, err := f.Open()
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read archive entry %s", f.Name)
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", path)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return pkgerrors.Wrapf(err, "failed to write %s", path)
	}

	return pkgerrors.Wrapf(dst.Close(), "failed to close %s", path)
}

// locateToolsDir finds the directory holding the executables. The
// vendor zip carries a platform-tools/ top-level directory, and some
// archives carry it twice, so probe up to two nested levels.
func locateToolsDir(extractPath, adbName string) (string, error) {
	candidates := []string{
		extractPath,
		filepath.Join(extractPath, extractName),
		filepath.Join(extractPath, extractName, extractName),
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, adbName)); err == nil {
			return dir, nil
		}
	}

	return "", pkgerrors.Errorf("%s not found under %s, the archive layout is not recognized", adbName, extractPath)
}

func (i *Installer) relocate(toolsDir, name string) error {
	src := filepath.Join(toolsDir, name)
	dst := filepath.Join(i.Dir, name)

	if err := os.Rename(src, dst); err != nil {
		return pkgerrors.Wrapf(err, "failed to move %s to %s", src, dst)
	}

	if i.Spec.OS != "windows" {
		if err := os.Chmod(dst, 0755); err != nil {
			return pkgerrors.Wrapf(err, "failed to set executable permissions on %s", dst)
		}
	}

	logrus.Infof("moved %s to %s", name, dst)
	return nil
}
