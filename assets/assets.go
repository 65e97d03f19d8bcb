// Package assets embeds the default model and sky so the viewer runs with no
// files on disk. Sources name them with the "res:" prefix, e.g.
// "res:torus.obj" or "res:sky/pos-x.png".
package assets

import "embed"

// FS holds torus.obj and sky/{pos,neg}-{x,y,z}.png.
//
//go:embed torus.obj sky/*.png
var FS embed.FS
