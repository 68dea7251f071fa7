package install

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// archiveKind identifies the package formats the installer understands.
type archiveKind int

const (
	kindUnknown archiveKind = iota
	kindTarGz
	kindZip
)

// sniffKind determines the archive format from the file's leading
// bytes rather than its name. Release packages carry different
// extensions per platform, so the content is the only reliable signal.
func sniffKind(archivePath string) (archiveKind, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return kindUnknown, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	header := make([]byte, 512)
	n, err := file.Read(header)
	if err != nil && !errors.Is(err, io.EOF) {
		return kindUnknown, fmt.Errorf("read archive header: %w", err)
	}

	switch mime := http.DetectContentType(header[:n]); mime {
	case "application/x-gzip":
		return kindTarGz, nil
	case "application/zip":
		return kindZip, nil
	default:
		return kindUnknown, fmt.Errorf("unsupported archive format %s", mime)
	}
}

// extractTarGz unpacks a gzip-compressed tarball into destDir.
func extractTarGz(archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target := filepath.Join(destDir, header.Name)
		if err := ensureWithin(destDir, target); err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("create parent dir for %s: %w", target, err)
			}
			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("create file %s: %w", target, err)
			}
			if _, err := io.Copy(outFile, tarReader); err != nil {
				outFile.Close()
				return fmt.Errorf("write file %s: %w", target, err)
			}
			outFile.Close()

		case tar.TypeSymlink:
			if err := ensureLinkWithin(destDir, target, header.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("create parent dir for %s: %w", target, err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("create symlink %s: %w", target, err)
			}

		default:
			// Skip char devices, block devices, fifos.
			continue
		}
	}

	return nil
}

// extractZip unpacks a zip archive into destDir.
func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		target := filepath.Join(destDir, entry.Name)
		if err := ensureWithin(destDir, target); err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", target, err)
		}

		// Entries written without explicit permissions report mode 0.
		mode := entry.Mode().Perm()
		if mode == 0 {
			mode = 0644
		}
		outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			return fmt.Errorf("create file %s: %w", target, err)
		}

		contents, err := entry.Open()
		if err != nil {
			outFile.Close()
			return fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		if _, err := io.Copy(outFile, contents); err != nil {
			contents.Close()
			outFile.Close()
			return fmt.Errorf("write file %s: %w", target, err)
		}
		contents.Close()
		outFile.Close()
	}

	return nil
}

// ensureWithin rejects archive entries that would land outside root.
func ensureWithin(root, target string) error {
	root = filepath.Clean(root)
	target = filepath.Clean(target)
	if target == root {
		return nil
	}
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return fmt.Errorf("illegal file path: %s", target)
	}
	return nil
}

// ensureLinkWithin rejects symlinks whose target resolves outside root.
// Relative link targets are resolved against the symlink's directory.
func ensureLinkWithin(root, linkPath, linkTarget string) error {
	if filepath.IsAbs(linkTarget) {
		return fmt.Errorf("illegal symlink target: %s", linkTarget)
	}
	resolved := filepath.Join(filepath.Dir(linkPath), linkTarget)
	return ensureWithin(root, resolved)
}
