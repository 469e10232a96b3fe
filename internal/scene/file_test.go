package scene

import (
	"encoding/json"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scened/internal/engine/lighting"
	"github.com/Faultbox/scened/pkg/math"
)

func randVec(r *rand.Rand, scale float32) math.Vec3 {
	return math.Vec3{
		X: (r.Float32()*2 - 1) * scale,
		Y: (r.Float32()*2 - 1) * scale,
		Z: (r.Float32()*2 - 1) * scale,
	}
}

func randColor(r *rand.Rand) math.Color {
	return math.Color{R: r.Float32(), G: r.Float32(), B: r.Float32(), A: r.Float32()}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	r := rand.New(rand.NewPCG(7, 11))
	path := filepath.Join(t.TempDir(), "scene.json")

	const n = 20
	for i := 0; i < n; i++ {
		h := f.create(t, Kind(i%4), randVec(r, 10))
		e, _ := f.scene.Entity(h)
		e.Rotation = randVec(r, 3)
		e.Scale = randVec(r, 2).Add(math.Vec3{X: 3, Y: 3, Z: 3})
		e.Material.Ambient = randColor(r)
		e.Material.Diffuse = randColor(r)
		e.Material.Specular = randColor(r)
		if l, ok := e.Light(); ok {
			l.Ambient = randColor(r)
			l.Diffuse = randColor(r)
			l.Specular = randColor(r)
			l.Radius = r.Float32() * 20
		}
	}

	var want []Entity
	var wantLights []Light
	f.scene.Each(func(_ Handle, e *Entity) {
		want = append(want, *e)
		if l, ok := e.Light(); ok {
			wantLights = append(wantLights, *l)
		}
	})

	require.NoError(t, f.scene.SaveScene(path))
	f.scene.DestroyAllEntities()
	require.Equal(t, 0, f.scene.Len())

	require.NoError(t, f.scene.LoadScene(path))
	require.Equal(t, n, f.scene.Len())

	var got []*Entity
	var gotLights []Light
	f.scene.Each(func(_ Handle, e *Entity) {
		got = append(got, e)
		if l, ok := e.Light(); ok {
			gotLights = append(gotLights, *l)
		}
	})

	for i := range want {
		assert.Equal(t, want[i].Kind(), got[i].Kind(), "entity %d", i)
		assert.True(t, want[i].Position.ApproxEqual(got[i].Position, 1e-5), "entity %d position", i)
		assert.True(t, want[i].Rotation.ApproxEqual(got[i].Rotation, 1e-5), "entity %d rotation", i)
		assert.True(t, want[i].Scale.ApproxEqual(got[i].Scale, 1e-5), "entity %d scale", i)
		assert.Equal(t, want[i].Material.Ambient, got[i].Material.Ambient, "entity %d", i)
		assert.Equal(t, want[i].Material.Diffuse, got[i].Material.Diffuse, "entity %d", i)
		assert.Equal(t, want[i].Material.Specular, got[i].Material.Specular, "entity %d", i)
		assert.Equal(t, f.shader, got[i].Material.Shader)
	}
	assert.Equal(t, wantLights, gotLights)
	assert.Len(t, f.scene.Lights(), len(wantLights))
}

func TestSaveFormat(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "scene.json")

	f.create(t, KindCube, math.Vec3{X: 1})
	f.create(t, KindLight, math.Vec3{Y: 2})
	require.NoError(t, f.scene.SaveScene(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	entities := doc["entities"]
	require.Len(t, entities, 2, "floor is never saved")

	cube, light := entities[0], entities[1]
	assert.Equal(t, float64(KindCube), cube["type"])
	assert.Equal(t, []any{1.0, 0.0, 0.0}, cube["position"])
	assert.NotContains(t, cube, "light")
	assert.Contains(t, cube["material"], "diffuse")

	assert.Equal(t, float64(KindLight), light["type"])
	params, ok := light["light"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 5.0, params["radius"])
	assert.Len(t, params["ambient"], 4)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadMissingFile(t *testing.T) {
	f := newFixture(t)
	f.create(t, KindCube, math.Zero3)

	err := f.scene.LoadScene(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 1, f.scene.Len(), "scene untouched")
}

func TestLoadCorruptFileLeavesSceneUntouched(t *testing.T) {
	f := newFixture(t)
	f.create(t, KindCube, math.Zero3)
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entities": [`), 0644))

	assert.Error(t, f.scene.LoadScene(path))
	assert.Equal(t, 1, f.scene.Len())
}

func TestLoadSkipsLightsBeyondLimit(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "scene.json")

	doc := sceneJSON{}
	for i := 0; i < lighting.MaxLights+2; i++ {
		doc.Entities = append(doc.Entities, entityJSON{Type: KindLight, Scale: [3]float32{1, 1, 1}})
	}
	doc.Entities = append(doc.Entities,
		entityJSON{Type: KindCube, Scale: [3]float32{1, 1, 1}},
		entityJSON{Type: Kind(42)},
	)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	require.NoError(t, f.scene.LoadScene(path))
	assert.Len(t, f.scene.Lights(), lighting.MaxLights)
	assert.Equal(t, lighting.MaxLights+1, f.scene.Len())
}

func TestLoadLightWithoutParamsUsesDefaults(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entities":[{"type":3,"position":[0,1,0],"scale":[1,1,1]}]}`), 0644))

	require.NoError(t, f.scene.LoadScene(path))
	lights := f.scene.Lights()
	require.Len(t, lights, 1)
	e, _ := f.scene.Entity(lights[0])
	l, _ := e.Light()
	assert.Equal(t, DefaultLight(), *l)
	assert.Equal(t, math.Vec3{Y: 1}, e.Position)
}

func TestLoadOrCreate(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "nested", "scene.json")

	created, err := f.scene.LoadOrCreate(path, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, f.scene.Len())
	assert.Len(t, f.scene.Lights(), 1)
	assert.FileExists(t, path)

	// A second run loads what the first wrote.
	other := newFixture(t)
	created, err = other.scene.LoadOrCreate(path, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 4, other.scene.Len())
}

func TestLoadOrCreateBacksUpCorruptFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	built := false
	created, err := f.scene.LoadOrCreate(path, func(s *Scene) error {
		built = true
		_, err := s.CreateEntity(KindSphere)
		return err
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, built)
	assert.Equal(t, 1, f.scene.Len())

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "not json", string(backup))
}

func TestLoadSceneMalformed(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	err := f.scene.LoadScene(path)
	assert.ErrorIs(t, err, ErrMalformedScene)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadOrCreateKeepsUnreadablePath(t *testing.T) {
	f := newFixture(t)
	// A directory where the file should be fails to read but is not malformed.
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.Mkdir(path, 0755))

	created, err := f.scene.LoadOrCreate(path, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedScene)
	assert.False(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "path left in place")
	_, err = os.Stat(path + ".bak")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
