package datasets

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// The corpus archive as published for the Kaggle competition.
const (
	ZipURL       = "https://grasplifteeg.nyc3.digitaloceanspaces.com/grasp-and-lift-eeg-detection.zip"
	ZipSizeBytes = 980887394
)

// DownloadArchive fetches the corpus archive into root, verifies its byte
// size, extracts it, and removes the zip. A correctly sized zip already on
// disk skips the fetch. After a successful call, root contains the train/
// and test/ directories the loader expects.
func DownloadArchive(root string, log zerolog.Logger) error {
	zipPath := filepath.Join(root, filepath.Base(ZipURL))
	if fi, err := os.Stat(zipPath); err != nil || fi.Size() != ZipSizeBytes {
		log.Info().Str("url", ZipURL).Msg("downloading archive")
		start := time.Now()
		if err := fetchArchive(zipPath); err != nil {
			return err
		}
		log.Info().Dur("elapsed", time.Since(start).Round(time.Second)).Msg("downloaded")
	}

	log.Info().Str("zip", zipPath).Str("dest", root).Msg("extracting archive")
	start := time.Now()
	if err := unzip(zipPath, root); err != nil {
		return fmt.Errorf("extract %s: %w", zipPath, err)
	}
	log.Info().Dur("elapsed", time.Since(start).Round(time.Second)).Msg("extracted")
	return os.Remove(zipPath)
}

func fetchArchive(zipPath string) error {
	resp, err := http.Get(ZipURL)
	if err != nil {
		return fmt.Errorf("fetch %s: %v: %w", ZipURL, err, ErrDownload)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d: %w", ZipURL, resp.StatusCode, ErrDownload)
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", zipPath, err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", zipPath, err)
	}
	if n != ZipSizeBytes {
		return fmt.Errorf("downloaded %d bytes, want %d: %w", n, ZipSizeBytes, ErrDownload)
	}
	return nil
}

func unzip(zipPath, dest string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer zr.Close()

	root := filepath.Clean(dest) + string(os.PathSeparator)
	for _, zf := range zr.File {
		target := filepath.Join(dest, zf.Name)
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("archive entry %q escapes %s", zf.Name, dest)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(zf, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(zf *zip.File, target string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(target)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, rc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
