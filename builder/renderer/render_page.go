package renderer

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Kush-Singh-26/texsvg/builder/models"
	"github.com/Kush-Singh-26/texsvg/builder/utils"
)

// RenderPage executes the layout for data and writes it to name below the
// output root.
func (r *Renderer) RenderPage(name string, data models.PageData) error {
	path, err := r.OutputPath(name)
	if err != nil {
		return err
	}

	if err := r.DestFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.logger.Error("Failed to create directory", "path", path, "error", err)
		return fmt.Errorf("create directory for %s: %w", name, err)
	}

	f, err := r.DestFs.Create(path)
	if err != nil {
		r.logger.Error("Failed to create file", "path", path, "error", err)
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	bw := utils.SharedBufioWriterPool.Get(f)
	defer utils.SharedBufioWriterPool.Put(bw)

	var w io.Writer = bw
	var mw io.WriteCloser
	if r.Compress {
		mw = utils.Minifier().Writer(utils.MediaHTML, bw)
		w = mw
	}

	if err := r.Layout.Execute(w, data); err != nil {
		r.logger.Error("Failed to render layout", "path", path, "error", err)
		return fmt.Errorf("render %s: %w", name, err)
	}
	if mw != nil {
		if err := mw.Close(); err != nil {
			return fmt.Errorf("minify %s: %w", name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	r.RegisterFile(name)
	return nil
}

// RenderJSON writes page as indented JSON to name below the output root.
func (r *Renderer) RenderJSON(name string, page models.JSONPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return r.WriteRaw(name, data)
}

// WriteFile writes a rendered formula. SVG files are minified when
// MinifySVG is set; a minifier failure keeps the original bytes.
func (r *Renderer) WriteFile(name string, data []byte) error {
	if r.MinifySVG && strings.HasSuffix(name, ".svg") {
		if min, err := utils.Minifier().Bytes(utils.MediaSVG, data); err == nil {
			data = min
		} else {
			r.logger.Warn("SVG minify failed, writing original", "file", name, "error", err)
		}
	}
	return r.WriteRaw(name, data)
}

// WriteRaw writes data unchanged to name below the output root.
func (r *Renderer) WriteRaw(name string, data []byte) error {
	path, err := r.OutputPath(name)
	if err != nil {
		return err
	}
	if err := utils.WriteFileVFS(r.DestFs, path, data); err != nil {
		return err
	}
	r.RegisterFile(name)
	return nil
}
