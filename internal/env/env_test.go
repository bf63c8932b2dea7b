package env

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func testCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

func componentPackage(id uuid.UUID, name string, componentIDs ...uuid.UUID) *Package {
	return &Package{
		GUID: id,
		Name: name,
		Register: func(ctx context.Context, root *Scope) {
			mod := root.Register(&Module{ID: id, ModuleName: name})
			for _, cid := range componentIDs {
				desc := NewComponentDesc(cid, "Comp"+cid.String()[:4], "Component", "Test", FlagSingleton)
				mod.Register(desc)
			}
		},
	}
}

func TestDescFactory_GetOrCreate(t *testing.T) {
	f := NewDescFactory()
	id := uuid.New()

	d := f.GetOrCreate(id)
	require.NotNil(t, d)
	assert.Equal(t, id, d.GUID())
	d.SetLabel("FlashElement:HUD")

	again := f.GetOrCreate(id)
	assert.Same(t, d, again, "the cached descriptor is returned")
	assert.Equal(t, 1, f.Len())

	f.Reset()
	assert.Equal(t, 0, f.Len())
	_, ok := f.Lookup(id)
	assert.False(t, ok)
	assert.NotSame(t, d, f.GetOrCreate(id))
}

func TestComponentDesc_Mutators(t *testing.T) {
	d := &ComponentDesc{}
	id := uuid.New()
	d.SetGUID(id)
	d.SetName("FlashUI::HUD")
	d.SetLabel("FlashElement:HUD")
	d.SetEditorCategory("FlashUI")
	d.SetComponentFlags(FlagHideFromInspector | FlagSingleton)

	assert.Equal(t, id, d.GUID())
	assert.Equal(t, "FlashUI::HUD", d.Name())
	assert.Equal(t, "FlashElement:HUD", d.Label())
	assert.Equal(t, "FlashUI", d.EditorCategory())
	assert.True(t, d.Flags().Has(FlagSingleton))
	assert.Equal(t, "HideFromInspector|Singleton", d.Flags().String())
	assert.Equal(t, "None", ComponentFlags(0).String())
	assert.Equal(t, KindComponent, d.Kind())
}

func TestScope_RegisterAndWalk(t *testing.T) {
	root := NewRootScope()
	mod := root.Register(&Module{ID: uuid.New(), ModuleName: "FlashUI"})
	comp := mod.Register(NewComponentDesc(uuid.New(), "FlashUI::HUD", "FlashElement:HUD", "FlashUI", 0))
	comp.Register(&Function{ID: uuid.New(), FuncName: "SetVisible", Inputs: []Param{{Name: "visible", Type: cty.Bool}}})

	assert.Nil(t, root.Element())
	assert.Same(t, mod, comp.Parent())
	assert.Len(t, root.Children(), 1)
	assert.Equal(t, 3, root.Count())

	var depths []int
	root.Walk(func(depth int, _ *Scope) { depths = append(depths, depth) })
	assert.Equal(t, []int{1, 2, 3}, depths)

	found := root.Find(func(e Element) bool { return e.Kind() == KindFunction })
	require.NotNil(t, found)
	assert.Equal(t, "SetVisible", found.Element().Name())
	assert.Nil(t, root.Find(func(e Element) bool { return e.Kind() == KindSignal }))
}

func TestRegistry_RegisterAndDeregister(t *testing.T) {
	ctx := testCtx()
	r := NewRegistry()
	a := uuid.New()
	b := uuid.New()

	require.NoError(t, r.RegisterPackage(ctx, componentPackage(a, "A", uuid.New())))
	require.NoError(t, r.RegisterPackage(ctx, componentPackage(b, "B")))
	assert.Equal(t, 2, r.Len())

	root, ok := r.Root(a)
	require.True(t, ok)
	assert.Equal(t, 2, root.Count())

	assert.True(t, r.DeregisterPackage(ctx, a))
	assert.False(t, r.DeregisterPackage(ctx, a))
	_, ok = r.Root(a)
	assert.False(t, ok)
	require.Len(t, r.Packages(), 1)
	assert.Equal(t, "B", r.Packages()[0].Name)
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	ctx := testCtx()
	r := NewRegistry()
	id := uuid.New()

	require.NoError(t, r.RegisterPackage(ctx, componentPackage(id, "A", uuid.New(), uuid.New())))
	require.NoError(t, r.RegisterPackage(ctx, componentPackage(id, "A", uuid.New())))

	assert.Equal(t, 1, r.Len())
	root, _ := r.Root(id)
	assert.Equal(t, 2, root.Count(), "second registration replaces the first")
}

func TestRegistry_RejectsIncompletePackages(t *testing.T) {
	ctx := testCtx()
	r := NewRegistry()

	require.Error(t, r.RegisterPackage(ctx, nil))
	require.Error(t, r.RegisterPackage(ctx, &Package{Name: "no guid", Register: func(context.Context, *Scope) {}}))
	require.Error(t, r.RegisterPackage(ctx, &Package{GUID: uuid.New(), Name: "no callback"}))
	assert.Equal(t, 0, r.Len())
}

func TestCompiler_CompileAll(t *testing.T) {
	ctx := testCtx()
	r := NewRegistry()
	c := NewCompiler(r)

	require.NoError(t, r.RegisterPackage(ctx, componentPackage(uuid.New(), "A", uuid.New(), uuid.New())))
	report, err := c.CompileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generation)
	assert.Equal(t, 1, report.Packages)
	assert.Equal(t, 2, report.Elements[KindComponent])
	assert.Equal(t, 3, report.Total())
	assert.Same(t, report, c.LastReport())

	_, err = c.CompileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Generation())
}

func TestCompiler_DuplicateGUID(t *testing.T) {
	ctx := testCtx()
	r := NewRegistry()
	c := NewCompiler(r)
	shared := uuid.New()

	require.NoError(t, r.RegisterPackage(ctx, componentPackage(uuid.New(), "A", shared)))
	require.NoError(t, r.RegisterPackage(ctx, componentPackage(uuid.New(), "B", shared)))

	_, err := c.CompileAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateGUID))
	assert.Nil(t, c.LastReport())
}

func TestRegistry_Dump(t *testing.T) {
	ctx := testCtx()
	r := NewRegistry()
	id := uuid.MustParse("58CC50B0-EC1A-4EFD-A5D6-9528ED3CCCF4")
	require.NoError(t, r.RegisterPackage(ctx, &Package{
		GUID:        id,
		Name:        "FlashComponents",
		Description: "Flash",
		Register: func(_ context.Context, root *Scope) {
			mod := root.Register(&Module{ID: id, ModuleName: "FlashUI"})
			comp := mod.Register(NewComponentDesc(uuid.New(), "FlashUI::HUD", "FlashElement:HUD", "FlashUI", FlagHideFromInspector|FlagSingleton))
			comp.Register(&Function{ID: uuid.New(), FuncName: "SetVisible", Inputs: []Param{{Name: "visible", Type: cty.Bool}}})
			comp.Register(&Signal{ID: uuid.New(), SignalName: "OnClick", Members: []Member{{Name: "id"}}})
		},
	}))

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "package FlashComponents {58cc50b0-ec1a-4efd-a5d6-9528ed3cccf4} (Flash)")
	assert.Contains(t, out, "  module FlashUI\n")
	assert.Contains(t, out, `    component FlashUI::HUD "FlashElement:HUD" [HideFromInspector|Singleton] category=FlashUI`)
	assert.Contains(t, out, "      function SetVisible(visible bool)")
	assert.Contains(t, out, "      signal OnClick {id}")
}

func TestFunction_Call(t *testing.T) {
	double := &Function{
		FuncName: "Double",
		Inputs:   []Param{{Name: "x", Type: cty.Number}},
		Outputs:  []Param{{Name: "result", Type: cty.Number}},
		Invoke: func(_ context.Context, args []cty.Value) ([]cty.Value, error) {
			return []cty.Value{args[0].Multiply(cty.NumberIntVal(2))}, nil
		},
	}

	out, err := double.Call(testCtx(), cty.NumberIntVal(21))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Equals(cty.NumberIntVal(42)).True())

	_, err = double.Call(testCtx())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 1 arguments, got 0")

	_, err = (&Function{FuncName: "Stub"}).Call(testCtx())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no implementation")
}

func TestFunction_CallOptionalInputs(t *testing.T) {
	var got []cty.Value
	send := &Function{
		FuncName: "Send",
		Inputs: []Param{
			{Name: "event", Type: cty.String},
			{Name: "payload", Type: cty.DynamicPseudoType, Optional: true},
		},
		Invoke: func(_ context.Context, args []cty.Value) ([]cty.Value, error) {
			got = args
			return nil, nil
		},
	}

	_, err := send.Call(testCtx(), cty.StringVal("Reset"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].IsNull(), "omitted optional inputs arrive as nulls")

	_, err = send.Call(testCtx(), cty.StringVal("Reset"), cty.StringVal("data"))
	require.NoError(t, err)
	assert.Equal(t, "data", got[1].AsString())

	_, err = send.Call(testCtx())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 1 to 2 arguments, got 0")

	assert.Equal(t, "function Send(event string, payload? dynamic)", describe(send))
}
