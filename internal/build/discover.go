package build

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docweave/internal/config"
	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/markdown"
)

// pageExtension marks files treated as pages; everything else copies through
// unchanged.
const pageExtension = ".md"

// discover walks the source tree in deterministic (lexical) order, parsing
// pages and copying other files verbatim into the build directory. The
// resulting page order is preserved through every pipeline pass.
func discover(ctx context.Context, cfg *config.Config, dryRun bool) ([]*document.Page, int, error) {
	var pages []*document.Page
	copied := 0

	err := filepath.WalkDir(cfg.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(cfg.Source, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if strings.EqualFold(filepath.Ext(path), pageExtension) {
			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			pages = append(pages, &document.Page{
				SourcePath: rel,
				DestPath:   strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html",
				Source:     source,
				Root:       markdown.Parse(source),
			})
			return nil
		}

		if !dryRun {
			if err := copyFile(path, filepath.Join(cfg.Build, filepath.FromSlash(rel))); err != nil {
				return err
			}
		}
		copied++
		return nil
	})
	if err != nil {
		return nil, 0, derrors.Wrap(err, derrors.KindInternal, "walking source tree %s", cfg.Source)
	}
	return pages, copied, nil
}

// copyAssets copies the assets tree verbatim into the output. The
// destination must not already exist.
func copyAssets(src, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return derrors.New(derrors.KindReservedOutputPath,
			"assets destination %s already exists", dest)
	}
	if fi, err := os.Stat(src); err != nil || !fi.IsDir() {
		return derrors.New(derrors.KindInvalidConfig, "assets directory %s does not exist", src)
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
