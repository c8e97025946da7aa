// Package planfile resolves the plan argument of the CLI to a local JSON
// file: plain paths are used as is, http(s) URLs are downloaded and .zip
// bundles are extracted.
package planfile

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// CacheDir is where downloads and extracted bundles go, relative to the
// working directory.
const CacheDir = "cache/plans"

// ErrNoPlan is returned when a bundle holds no .json file.
var ErrNoPlan = errors.New("planfile: no plan in bundle")

const userAgent = "floorview/1.0"

var client = &http.Client{Timeout: 60 * time.Second}

// Resolve returns a local path to the plan JSON named by src.
func Resolve(ctx context.Context, src, cacheDir string) (string, error) {
	local := src
	if isURL(src) {
		p, err := Download(ctx, src, cacheDir)
		if err != nil {
			return "", err
		}
		local = p
	}
	if strings.EqualFold(filepath.Ext(local), ".zip") {
		dir := filepath.Join(cacheDir, strings.TrimSuffix(filepath.Base(local), filepath.Ext(local)))
		return ExtractPlan(local, dir)
	}
	return local, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Download fetches url into destDir and returns the saved path. The file is
// named after the Content-Disposition filename or the last URL path segment,
// and gets a .json or .zip extension from the Content-Type when it has
// neither.
func Download(ctx context.Context, url, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("planfile: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("planfile: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("planfile: fetch %s: %s", url, resp.Status)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("planfile: %w", err)
	}
	dest := filepath.Join(destDir, savedName(resp))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("planfile: %w", err)
	}
	_, err = io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("planfile: save %s: %w", dest, err)
	}
	return dest, nil
}

// savedName picks a safe local file name for resp.
func savedName(resp *http.Response) string {
	var name string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	if name == "" && resp.Request != nil {
		name = path.Base(resp.Request.URL.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = "plan"
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".zip":
	default:
		name += extFor(resp.Header.Get("Content-Type"))
	}
	name = unsafeChars.ReplaceAllString(path.Base(name), "_")
	if len(name) > maxNameLen {
		ext := path.Ext(name)
		name = name[:maxNameLen-len(ext)] + ext
	}
	return name
}

const maxNameLen = 96

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// extFor maps a Content-Type to a plan extension; anything not zip is taken
// to be JSON.
func extFor(contentType string) string {
	mt, _, _ := mime.ParseMediaType(contentType)
	if strings.HasSuffix(mt, "zip") {
		return ".zip"
	}
	return ".json"
}

// ExtractPlan unzips bundle into destDir and returns the plan file in it:
// plan.json if present, else the first .json file in archive order. Entries
// that would escape destDir are skipped.
func ExtractPlan(bundle, destDir string) (string, error) {
	r, err := zip.OpenReader(bundle)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return "", fmt.Errorf("planfile: unzip: %w", err)
	}
	defer r.Close()
	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("planfile: unzip: %w", err)
	}

	var first, named string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dest := filepath.Join(absDir, f.Name)
		if !strings.HasPrefix(dest, absDir+string(os.PathSeparator)) {
			continue
		}
		if err := extract(f, dest); err != nil {
			return "", err
		}
		if !strings.EqualFold(filepath.Ext(dest), ".json") {
			continue
		}
		if first == "" {
			first = dest
		}
		if strings.EqualFold(filepath.Base(dest), "plan.json") && named == "" {
			named = dest
		}
	}
	switch {
	case named != "":
		return named, nil
	case first != "":
		return first, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoPlan, bundle)
}

func extract(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("planfile: unzip: %w", err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("planfile: unzip: %w", err)
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("planfile: unzip: %w", err)
	}
	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("planfile: unzip %s: %w", f.Name, err)
	}
	return nil
}
