package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/teapot/pkg/render"
)

// MaxImageSize bounds a fetched face image.
const MaxImageSize = 64 << 20

// FaceResult is the outcome of fetching one cubemap face.
type FaceResult struct {
	Face   render.CubeFace
	Source string
	Image  image.Image
	Err    error
}

// Faces returns the six face sources under dir, in CubeFace order, named
// pos-x, neg-x, pos-y, neg-y, pos-z and neg-z with the given extension.
// dir may be a directory, a "res:" prefix or a URL.
func Faces(dir, ext string) [render.NumFaces]string {
	ext = strings.TrimPrefix(ext, ".")
	var out [render.NumFaces]string
	for f := render.CubeFace(0); f < render.NumFaces; f++ {
		name := f.String() + "." + ext
		switch {
		case dir == "":
			out[f] = name
		case strings.HasSuffix(dir, "/"), dir == ResourcePrefix:
			out[f] = dir + name
		case strings.Contains(dir, "://"), strings.HasPrefix(dir, ResourcePrefix):
			out[f] = dir + "/" + name
		default:
			out[f] = path.Join(dir, name)
		}
	}
	return out
}

// FetchCubeFaces fetches and decodes the six faces concurrently. Each image
// is resampled to size x size when size > 0. The channel receives one
// result per face in completion order and is then closed. Empty sources are
// skipped and produce no result.
func (l *Loader) FetchCubeFaces(ctx context.Context, faces [render.NumFaces]string, size int) <-chan FaceResult {
	out := make(chan FaceResult, render.NumFaces)
	go func() {
		defer close(out)
		start := time.Now()

		var g errgroup.Group
		g.SetLimit(l.limit)
		for i, src := range faces {
			if src == "" {
				continue
			}
			face := render.CubeFace(i)
			g.Go(func() error {
				img, err := l.fetchImage(ctx, src, size)
				if err != nil {
					l.log.Warn("cubemap face fetch failed",
						zap.Stringer("face", face), zap.String("source", src), zap.Error(err))
				}
				out <- FaceResult{Face: face, Source: src, Image: img, Err: err}
				return nil
			})
		}
		_ = g.Wait()
		l.log.Debug("cubemap faces fetched", zap.Duration("elapsed", time.Since(start)))
	}()
	return out
}

func (l *Loader) fetchImage(ctx context.Context, src string, size int) (image.Image, error) {
	rc, err := l.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, format, err := image.Decode(io.LimitReader(rc, MaxImageSize))
	if err != nil {
		return nil, &FetchError{Source: src, Err: fmt.Errorf("decode: %w", err)}
	}
	b := img.Bounds()
	l.log.Debug("decoded face image",
		zap.String("source", src), zap.String("format", format),
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))

	if size > 0 && (b.Dx() != size || b.Dy() != size) {
		img = resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	}
	return img, nil
}
