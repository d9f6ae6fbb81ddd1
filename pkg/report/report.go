package report

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	fileutil "github.com/zan8in/pins/file"
	timeutil "github.com/zan8in/pins/time"
)

var OutputDirectory = "./reports"

// checkReportFile validates the extension of fileName and, when the
// name is empty, derives a timestamped one under OutputDirectory.
func checkReportFile(fileName, ext string) (string, error) {
	if len(fileName) == 0 {
		if !fileutil.FolderExists(OutputDirectory) {
			fileutil.CreateFolder(OutputDirectory)
		}
		return filepath.Join(OutputDirectory, timeutil.Format(timeutil.Format_1)+ext), nil
	}

	if suffix := path.Ext(fileName); suffix != ext {
		return "", fmt.Errorf("please change the file extension of the output to %s. Unable to create output file", ext)
	}

	if dir := filepath.Dir(fileName); dir != "." && !fileutil.FolderExists(dir) {
		return "", fmt.Errorf("the directory '%s' does not exist", dir)
	}

	return fileName, nil
}

// writeAtomic writes data through a temp file in the target directory
// and renames it into place, so a failed run never leaves a truncated
// report behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpF, err := os.CreateTemp(dir, "netscan-*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %v", err)
	}
	tmpPath := tmpF.Name()

	cleanup := func() {
		tmpF.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmpF.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("unable to write temp file: %v", err)
	}
	if err := tmpF.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("unable to sync temp file: %v", err)
	}
	if err := tmpF.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("unable to close temp file: %v", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("unable to create output file: %v", err)
	}

	return nil
}
