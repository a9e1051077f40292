package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/softrender/internal/config"
	"github.com/taigrr/softrender/internal/logger"
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
)

// scene is everything a frame needs besides the camera and the target.
type scene struct {
	cfg       *config.Config
	mesh      *models.Mesh
	material  *models.TextureSet
	bg        render.Color
	base      render.Color
	wire      render.Color
	wireframe bool
	axes      bool
}

// checkerMap as the diffuse map path selects a generated checkerboard, which
// shows how the UVs of a model are laid out.
const checkerMap = "checker"

func loadScene(cfg *config.Config) (*scene, error) {
	l := models.NewLoader()
	l.SmoothNormals = cfg.Model.SmoothNormals
	l.FitUnitCube = cfg.Model.FitUnitCube

	start := time.Now()
	material := &models.TextureSet{}
	var mesh *models.Mesh
	var err error
	switch strings.ToLower(filepath.Ext(cfg.Model.Path)) {
	case ".glb", ".gltf":
		var embedded bool
		mesh, embedded, err = loadGLB(cfg.Model.Path, material)
		if err == nil {
			l.Finish(mesh)
			logger.Debug("glTF texture", zap.Bool("embedded", embedded))
		}
	default:
		mesh, err = l.Load(cfg.Model.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	logger.Info("model loaded",
		zap.String("name", mesh.Name),
		zap.Int("triangles", mesh.FaceCount()),
		zap.String("size", sizeString(mesh.Size())),
		zap.Duration("elapsed", time.Since(start)),
	)

	maps := []struct {
		kind models.MapKind
		path string
	}{
		{models.MapDiffuse, cfg.Model.DiffuseMap},
		{models.MapNormal, cfg.Model.NormalMap},
		{models.MapSpecular, cfg.Model.SpecularMap},
	}
	for _, m := range maps {
		if m.path == "" {
			continue
		}
		if m.kind == models.MapDiffuse && m.path == checkerMap {
			material.DiffuseMap = render.NewCheckerTexture(256, 256, 32, render.ColorWhite, render.Gray(96))
			continue
		}
		if err := material.LoadMap(m.kind, m.path); err != nil {
			logger.Warn("texture map unavailable, using neutral map",
				zap.String("map", string(m.kind)), zap.Error(err))
			continue
		}
		logger.Debug("texture map loaded", zap.String("map", string(m.kind)), zap.String("path", m.path))
	}

	material.SetSampling(render.FilterMode(cfg.Shader.TextureFilter), render.WrapMode(cfg.Shader.TextureWrap))

	sc := &scene{
		cfg:       cfg,
		mesh:      mesh,
		material:  material,
		wireframe: cfg.Output.Wireframe,
	}
	// Colors were checked by Validate.
	sc.bg, _ = render.ParseHexColor(cfg.Image.Background)
	sc.base, _ = render.ParseHexColor(cfg.Shader.Color)
	sc.wire, _ = render.ParseHexColor(cfg.Output.WireframeColor)
	return sc, nil
}

// loadGLB loads a glTF mesh and installs its first image as the diffuse
// map. An explicit diffuse map loaded later replaces it.
func loadGLB(path string, ts *models.TextureSet) (*models.Mesh, bool, error) {
	mesh, img, err := models.LoadGLBWithTexture(path)
	if err != nil {
		return nil, false, err
	}
	if img == nil {
		return mesh, false, nil
	}
	ts.DiffuseMap = render.TextureFromImage(img)
	return mesh, true, nil
}

func (s *scene) camera() *render.Camera {
	c := s.cfg.Camera
	cam := render.NewCamera(c.Eye.V3(), c.Target.V3(), c.Up.V3())
	cam.Perspective = c.Perspective
	return cam
}

// render draws one frame of the scene into fb as seen from cam.
func (s *scene) render(fb *render.Framebuffer, cam *render.Camera) (render.RasterStats, error) {
	cfg := s.cfg
	vp := render.InsetRect(fb.Width, fb.Height, cfg.Viewport.Margin)
	tr := render.NewTransform(cam, vp, cfg.Viewport.DepthRange)

	shader, err := render.NewShader(render.ShaderKind(cfg.Shader.Kind), render.Scene{
		Model:     s.mesh,
		Material:  s.material,
		Transform: tr,
		Light:     cfg.Light.Direction.V3(),
		Color:     s.base,
	})
	if err != nil {
		return render.RasterStats{}, err
	}
	if toon, ok := shader.(*render.ToonShader); ok {
		toon.Bands = cfg.Shader.ToonBands
	}

	r := render.NewRasterizer(fb)
	r.DepthRange = cfg.Viewport.DepthRange
	r.EdgeTolerance = cfg.Shader.EdgeTolerance
	r.Clear(s.bg)
	r.DrawModel(s.mesh, shader)

	if s.wireframe || s.axes {
		w := render.NewWireframe(tr, fb)
		if s.wireframe {
			w.DrawModel(s.mesh, s.wire)
		}
		if s.axes {
			w.DrawAxes(1)
		}
	}
	return r.Stats, nil
}

func sizeString(v math3d.Vec3) string {
	return fmt.Sprintf("%.3gx%.3gx%.3g", v.X, v.Y, v.Z)
}
