package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/scened/pkg/math"
)

// JSON data structures. Vectors are [x, y, z] and colors [r, g, b, a].

type materialJSON struct {
	Ambient  [4]float32 `json:"ambient"`
	Specular [4]float32 `json:"specular"`
	Diffuse  [4]float32 `json:"diffuse"`
}

type lightJSON struct {
	Ambient  [4]float32 `json:"ambient"`
	Specular [4]float32 `json:"specular"`
	Diffuse  [4]float32 `json:"diffuse"`
	Radius   float32    `json:"radius"`
}

type entityJSON struct {
	Type     Kind         `json:"type"`
	Rotation [3]float32   `json:"rotation"`
	Position [3]float32   `json:"position"`
	Scale    [3]float32   `json:"scale"`
	Material materialJSON `json:"material"`
	Light    *lightJSON   `json:"light,omitempty"`
}

type sceneJSON struct {
	Entities []entityJSON `json:"entities"`
}

// SaveScene writes every entity except the floor to path, replacing any
// existing file. The document is written to a temporary file in the same
// directory and renamed into place.
func (s *Scene) SaveScene(path string) error {
	doc := sceneJSON{Entities: make([]entityJSON, 0, s.Len())}
	s.Each(func(_ Handle, e *Entity) {
		doc.Entities = append(doc.Entities, entityToJSON(e))
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write scene %q: %w", path, err)
	}

	s.log.Info("scene saved", zap.String("path", path), zap.Int("entities", len(doc.Entities)))
	return nil
}

// LoadScene replaces the current entities with the contents of path. The
// scene is left untouched if the file cannot be read or parsed; a missing
// file yields an error wrapping fs.ErrNotExist and a parse failure one
// wrapping ErrMalformedScene. Entries of unknown type and
// lights beyond the limit are skipped.
func (s *Scene) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene %q: %w", path, err)
	}
	var doc sceneJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal scene %q: %w: %w", path, ErrMalformedScene, err)
	}

	s.DestroyAllEntities()

	skipped := 0
	for i, ej := range doc.Entities {
		h, err := s.CreateEntity(ej.Type)
		if err != nil {
			s.log.Warn("skipping scene entry",
				zap.Int("index", i),
				zap.Int("type", int(ej.Type)),
				zap.Error(err),
			)
			skipped++
			continue
		}
		e, _ := s.Entity(h)
		applyJSON(e, ej)
	}

	s.log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("entities", s.Len()),
		zap.Int("skipped", skipped),
	)
	return nil
}

// LoadOrCreate loads path. If the file is missing or malformed it builds
// the starter scene with build (PopulateDefault when nil) and writes it
// out. A malformed file is kept next to the new one with a .bak suffix.
// Other read errors are returned and the file is left alone.
// created reports whether the fallback ran.
func (s *Scene) LoadOrCreate(path string, build func(*Scene) error) (created bool, err error) {
	loadErr := s.LoadScene(path)
	if loadErr == nil {
		return false, nil
	}

	switch {
	case errors.Is(loadErr, fs.ErrNotExist):
		s.log.Info("scene file not found, creating default", zap.String("path", path))
	case errors.Is(loadErr, ErrMalformedScene):
		s.log.Warn("scene file malformed, creating default", zap.String("path", path), zap.Error(loadErr))
		if err := os.Rename(path, path+".bak"); err != nil {
			return false, fmt.Errorf("back up scene file: %w", err)
		}
	default:
		return false, loadErr
	}

	if build == nil {
		build = PopulateDefault
	}
	s.DestroyAllEntities()
	if err := build(s); err != nil {
		return true, fmt.Errorf("build default scene: %w", err)
	}
	if err := s.SaveScene(path); err != nil {
		return true, err
	}
	return true, nil
}

// PopulateDefault adds the starter scene: one of each solid and a light.
func PopulateDefault(s *Scene) error {
	layout := []struct {
		kind Kind
		pos  math.Vec3
	}{
		{KindPyramid, math.Vec3{X: -2}},
		{KindCube, math.Vec3{}},
		{KindSphere, math.Vec3{X: 2}},
		{KindLight, math.Vec3{Y: 3, Z: 2}},
	}
	for _, item := range layout {
		h, err := s.CreateEntity(item.kind)
		if err != nil {
			return err
		}
		e, _ := s.Entity(h)
		e.Position = item.pos
		if l, ok := e.Light(); ok {
			l.Radius = 8
		}
	}
	return nil
}

func entityToJSON(e *Entity) entityJSON {
	ej := entityJSON{
		Type:     e.Kind(),
		Rotation: e.Rotation.Array(),
		Position: e.Position.Array(),
		Scale:    e.Scale.Array(),
		Material: materialJSON{
			Ambient:  e.Material.Ambient.Array(),
			Specular: e.Material.Specular.Array(),
			Diffuse:  e.Material.Diffuse.Array(),
		},
	}
	if l, ok := e.Light(); ok {
		ej.Light = &lightJSON{
			Ambient:  l.Ambient.Array(),
			Specular: l.Specular.Array(),
			Diffuse:  l.Diffuse.Array(),
			Radius:   l.Radius,
		}
	}
	return ej
}

// applyJSON copies persisted fields onto a freshly created entity. The
// shader and mesh stay as created.
func applyJSON(e *Entity, ej entityJSON) {
	e.Rotation = math.Vec3FromArray(ej.Rotation)
	e.Position = math.Vec3FromArray(ej.Position)
	e.Scale = math.Vec3FromArray(ej.Scale)
	e.Material.Ambient = math.ColorFromArray(ej.Material.Ambient)
	e.Material.Specular = math.ColorFromArray(ej.Material.Specular)
	e.Material.Diffuse = math.ColorFromArray(ej.Material.Diffuse)

	if l, ok := e.Light(); ok && ej.Light != nil {
		l.Ambient = math.ColorFromArray(ej.Light.Ambient)
		l.Specular = math.ColorFromArray(ej.Light.Specular)
		l.Diffuse = math.ColorFromArray(ej.Light.Diffuse)
		l.Radius = ej.Light.Radius
	}
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
