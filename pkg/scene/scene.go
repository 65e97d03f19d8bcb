// Package scene ties the viewer's state together and renders frames.
package scene

import (
	"github.com/taigrr/teapot/pkg/camera"
	"github.com/taigrr/teapot/pkg/models"
	"github.com/taigrr/teapot/pkg/render"
)

// Scene is everything a frame reads. It is owned by the render loop and
// passed by reference; nothing in it is shared with other goroutines except
// the mesh store, which publishes atomically.
type Scene struct {
	Mesh        *models.Store
	Skybox      *models.Mesh
	Camera      *camera.Controller
	Environment *render.Cubemap
	Light       render.Light
	Material    render.Material
	Mode        render.EffectMode
}

// New creates a scene with the default skybox, lighting and a placeholder
// environment of faceSize texels per face.
func New(store *models.Store, cam *camera.Controller, faceSize int) *Scene {
	return &Scene{
		Mesh:        store,
		Skybox:      models.NewSkybox(models.DefaultSkyboxHalfSize),
		Camera:      cam,
		Environment: render.NewCubemap(faceSize),
		Light:       render.DefaultLight(),
		Material:    render.DefaultMaterial(),
		Mode:        render.EffectPhong,
	}
}
