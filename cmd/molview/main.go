// Command molview renders the units of a small molecular structure as
// instanced meshes, colored and sized by switchable themes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"mol-render/config"
	"mol-render/core"
	"mol-render/geo"
	"mol-render/geo/mesh"
	"mol-render/gpu"
	"mol-render/internal/opengl"
	"mol-render/internal/platform"
	"mol-render/render"
	"mol-render/representation"
	"mol-render/structure"
	"mol-render/task"
	"mol-render/theme"
)

var colorThemeKeys = map[int]string{
	platform.Key1: "uniform",
	platform.Key2: "element-symbol",
	platform.Key3: "chain-id",
	platform.Key4: "element-index",
	platform.Key5: "unit-index",
}

var sizeThemeCycle = []theme.SizeProps{
	{Name: "physical", Scale: 0.3},
	{Name: "uniform", Value: 0.4},
	{Name: "unit-index", Value: 0.3, Scale: 0.15},
}

func loadPrimitive(geometry string) (mesh.Primitive, error) {
	switch geometry {
	case "sphere":
		return mesh.Sphere(16, 12), nil
	case "octahedron":
		return mesh.Octahedron(), nil
	case "box":
		return mesh.Box(), nil
	}
	if strings.EqualFold(filepath.Ext(geometry), ".obj") {
		return mesh.LoadOBJ(geometry)
	}
	return mesh.LoadGLTF(geometry)
}

// scene holds one mesh per symmetry group and the render items built for
// them, keyed by group.
type scene struct {
	structure *structure.Structure
	groups    []*structure.SymmetryGroup
	meshes    []*mesh.Mesh
	items     map[string]*render.Item
}

func groupKey(i int) string { return fmt.Sprintf("group-%d", i) }

func (s *scene) submit(ctx context.Context, builder *representation.Builder, props representation.MeshProps) {
	for i, g := range s.groups {
		m := s.meshes[i]
		builder.Submit(ctx, groupKey(i), func(ctx context.Context, rt task.Runtime) (*render.RenderObject, error) {
			return representation.CreateUnitsMeshRenderObject(ctx, rt, s.structure, g, m, props)
		})
	}
}

// install swaps finished objects in. It runs on the GL thread.
func (s *scene) install(gctx *gpu.Context, builder *representation.Builder) {
	for {
		select {
		case r := <-builder.Results():
			if r.Err != nil {
				fmt.Printf("Failed to build %s: %v\n", r.Key, r.Err)
				continue
			}
			item, err := render.NewItem(gctx, r.Object)
			if err != nil {
				fmt.Printf("Failed to create render item %s: %v\n", r.Key, err)
				continue
			}
			if old := s.items[r.Key]; old != nil {
				old.Destroy()
			}
			s.items[r.Key] = item
		default:
			return
		}
	}
}

func (s *scene) each(fn func(*render.Item)) {
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fn(s.items[k])
	}
}

// pick marks the element under the ray with action. Sizes follow the size
// theme so the hit spheres match what is drawn.
func (s *scene) pick(r geo.Ray, size theme.SizeProps, action geo.MarkerAction) error {
	t, err := theme.NewSizeTheme(theme.Context{Structure: s.structure}, size)
	if err != nil {
		return err
	}
	radius := t.Size
	if t.Granularity == theme.Uniform {
		radius = func(structure.Location) float32 { return t.Value }
	}

	var (
		hitKey  string
		hit     geo.LocationValue
		hitDist float32
	)
	for i, g := range s.groups {
		v, d, ok := geo.Pick(representation.ElementIterator(g), r, radius)
		if ok && (hitKey == "" || d < hitDist) {
			hitKey, hit, hitDist = groupKey(i), v, d
		}
	}
	item := s.items[hitKey]
	if item == nil {
		return nil
	}
	fmt.Printf("Picked %s %s in unit %d\n", hit.Location.TypeSymbol(), hit.Location.ChainID(), hit.Location.Unit.ID)
	item.Object().Values.MarkerData.Apply(hit.Index, hit.Index+1, action)
	return nil
}

func (s *scene) center() mgl32.Vec3 {
	var sum mgl32.Vec3
	n := s.structure.ElementCount()
	for i := range n {
		sum = sum.Add(s.structure.LocationAt(i).Position())
	}
	return sum.Mul(1 / float32(max(n, 1)))
}

func main() {
	configPath := flag.String("config", "", "TOML or YAML config file")
	exportPath := flag.String("export", "", "write the first symmetry group mesh as OBJ and exit")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	if logger := cfg.Logger(os.Stderr); logger != nil {
		gpu.SetLogger(logger)
	}

	// ── Structure and geometry ────────────────────────────────────────────────
	st, err := cfg.Structure.Build()
	if err != nil {
		fmt.Printf("Failed to build structure: %v\n", err)
		os.Exit(1)
	}
	primitive, err := loadPrimitive(cfg.Geometry)
	if err != nil {
		fmt.Printf("Failed to load geometry %q: %v\n", cfg.Geometry, err)
		os.Exit(1)
	}
	sc := &scene{structure: st, groups: st.UnitSymmetryGroups(), items: make(map[string]*render.Item)}
	for _, g := range sc.groups {
		sc.meshes = append(sc.meshes, representation.CreateElementMesh(g, primitive))
	}
	fmt.Printf("Structure %q: %d units, %d atoms, %d symmetry groups\n",
		cfg.Structure.Label, len(st.Units), st.ElementCount(), len(sc.groups))
	if *exportPath != "" {
		if err := exportOBJ(*exportPath, sc.meshes[0], cfg.Structure.Label); err != nil {
			fmt.Printf("Failed to export %s: %v\n", *exportPath, err)
			os.Exit(1)
		}
		fmt.Printf("Exported %s\n", *exportPath)
		return
	}

	// ── Window and GPU context ────────────────────────────────────────────────
	window, err := platform.NewWindow(cfg.Window)
	if err != nil {
		fmt.Printf("Failed to create window: %v\n", err)
		os.Exit(1)
	}
	defer window.Destroy()

	driver, err := opengl.Init()
	if err != nil {
		fmt.Printf("Failed to initialize OpenGL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OpenGL %s\n", driver.Version())
	gctx := gpu.NewContext(driver, gpu.WithGLSLVersion(cfg.GLSLVersion))
	defer gctx.Destroy()
	driver.Enable(gpu.DepthTest)

	builder, err := representation.NewBuilder(cfg.Builder, func(p task.Progress) {
		gpu.Logger().Debug("building", "progress", p.String())
	})
	if err != nil {
		fmt.Printf("Failed to start builder: %v\n", err)
		os.Exit(1)
	}
	defer builder.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	props := cfg.Representation
	sc.submit(ctx, builder, props)
	window.SetTitle(title(cfg.Structure.Label, props))

	// ── Input ─────────────────────────────────────────────────────────────────
	camera := NewOrbitCamera(sc.center(), 25)
	sizeIndex := 0
	quit := false
	window.SetScrollCallback(func(_, yoff float64) { camera.Zoom(yoff) })
	window.SetKeyCallback(func(key int) {
		switch key {
		case platform.KeyEscape:
			quit = true
		case platform.KeyR:
			camera = NewOrbitCamera(sc.center(), 25)
		case platform.KeyS:
			sizeIndex = (sizeIndex + 1) % len(sizeThemeCycle)
			props.Size = sizeThemeCycle[sizeIndex]
			window.SetTitle(title(cfg.Structure.Label, props))
			sc.submit(ctx, builder, props)
		case platform.KeyW, platform.KeyD, platform.KeyA:
			switch key {
			case platform.KeyW:
				props.FlatShaded = !props.FlatShaded
			case platform.KeyD:
				props.DoubleSided = !props.DoubleSided
			case platform.KeyA:
				if props.Alpha < 1 {
					props.Alpha = 1
				} else {
					props.Alpha = 0.5
				}
			}
			sc.each(func(it *render.Item) {
				if err := representation.UpdateMeshValues(it.Object().Values, props); err != nil {
					fmt.Printf("Failed to update values: %v\n", err)
				}
				representation.UpdateState(&it.Object().State, props)
			})
		case platform.KeyH, platform.KeyC:
			action := geo.MarkerToggle
			if key == platform.KeyC {
				action = geo.MarkerClear
			}
			sc.each(func(it *render.Item) {
				markers := it.Object().Values.MarkerData
				markers.Apply(0, markers.TMarker.Value().Count(1), action)
			})
		default:
			if name, ok := colorThemeKeys[key]; ok {
				props.Color = theme.ColorProps{Name: name}
				window.SetTitle(title(cfg.Structure.Label, props))
				sc.submit(ctx, builder, props)
			}
		}
	})

	fmt.Println("Controls: left click highlight (shift toggles selection), right drag orbit, scroll zoom, arrows pan,")
	fmt.Println("          1-5 color theme, S size theme,")
	fmt.Println("          W flat shading, D double sided, A transparency, H toggle selection, C clear, R reset, Esc quit")
	fmt.Printf("Color themes: %s\n", strings.Join(theme.ColorThemeNames(), ", "))

	// ── Render loop ───────────────────────────────────────────────────────────
	background := core.ColorFromHex(0x101418)
	globals := render.DefaultGlobals()
	globals.LightDirection = mgl32.Vec3{-0.3, -0.5, -1}.Normalize()
	last := window.Time()
	leftDown := false
	for !window.ShouldClose() && !quit {
		window.PollEvents()
		now := window.Time()
		camera.Update(window, float32(now-last))
		last = now

		width, height := window.GetFramebufferSize()
		pressed := window.IsMouseButtonPressed(platform.MouseButtonLeft)
		if pressed && !leftDown {
			x, y := window.GetCursorPos()
			action := geo.MarkerHighlight
			if window.IsKeyPressed(platform.KeyLeftShift) {
				action = geo.MarkerToggle
			}
			r, err := geo.ScreenToRay(float32(x), float32(y), width, height, camera.View(), camera.Projection(width, height))
			if err == nil {
				err = sc.pick(r, props.Size, action)
			}
			if err != nil {
				fmt.Printf("Failed to pick: %v\n", err)
			}
		}
		leftDown = pressed

		sc.install(gctx, builder)

		driver.Viewport(width, height)
		driver.Clear(background.R, background.G, background.B, 1)

		globals.View = camera.View()
		globals.Projection = camera.Projection(width, height)
		gctx.ResetCurrentProgram()
		sc.each(func(it *render.Item) {
			if err := it.Update(); err != nil {
				fmt.Printf("Failed to update render item: %v\n", err)
				return
			}
			it.Render(globals)
		})

		window.SwapBuffers()
	}

	cancel()
	builder.Close()
	sc.each(func(it *render.Item) { it.Destroy() })
}

func title(label string, props representation.MeshProps) string {
	return fmt.Sprintf("molview - %s [color: %s, size: %s]", label, props.Color.Name, props.Size.Name)
}

func exportOBJ(path string, m *mesh.Mesh, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mesh.WriteOBJ(f, m, name); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
