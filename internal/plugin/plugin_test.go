package plugin

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/gameevent"
	"github.com/specialistvlad/arenaplug/internal/registrar"
	"github.com/specialistvlad/arenaplug/internal/typeid"
	"github.com/specialistvlad/arenaplug/internal/uielement"
	"github.com/specialistvlad/arenaplug/internal/uimodule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func testCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

type harness struct {
	registry   *env.Registry
	compiler   *env.Compiler
	dispatcher *Dispatcher
	plugin     *Plugin
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{registry: env.NewRegistry(), dispatcher: NewDispatcher()}
	h.compiler = env.NewCompiler(h.registry)
	source := uielement.NewLibrary(&uielement.Element{ElementName: "HUD", Movie: "hud.gfx"})
	h.plugin = New(cfg, h.registry, h.compiler, source)
	require.NoError(t, h.plugin.Initialize(testCtx(), h.dispatcher))
	return h
}

func (h *harness) function(t *testing.T, pkg uuid.UUID, name string) *env.Function {
	t.Helper()
	root, ok := h.registry.Root(pkg)
	require.True(t, ok)
	s := root.Find(func(e env.Element) bool { return e.Kind() == env.KindFunction && e.Name() == name })
	require.NotNil(t, s, "function %s", name)
	return s.Element().(*env.Function)
}

func packageNames(r *env.Registry) []string {
	var names []string
	for _, p := range r.Packages() {
		names = append(names, p.Name)
	}
	return names
}

func TestInitialize(t *testing.T) {
	h := newHarness(t, Config{Editor: true})
	assert.Equal(t, 1, h.dispatcher.Len())
	assert.Error(t, h.plugin.Initialize(testCtx(), h.dispatcher), "initializing twice fails")
	assert.Error(t, New(Config{}, env.NewRegistry(), nil, uielement.NewLibrary()).Initialize(testCtx(), nil))
}

func TestRegisterEnvEvent(t *testing.T) {
	h := newHarness(t, Config{Editor: true})
	h.dispatcher.Dispatch(testCtx(), RegisterEnv)

	assert.Equal(t, []string{EntityComponentsPackage, GameNodesPackage, uimodule.PackageName}, packageNames(h.registry))

	_, err := h.compiler.CompileAll(testCtx())
	require.NoError(t, err, "the three packages must not share identifiers")

	_, ok := h.plugin.UI().Elements().Lookup(typeid.Derive("HUD"))
	assert.True(t, ok)

	h.dispatcher.Dispatch(testCtx(), RegisterEnv)
	assert.Equal(t, 3, h.registry.Len(), "registering again replaces packages")
}

func TestPostInit(t *testing.T) {
	t.Run("outside the editor locks reloads", func(t *testing.T) {
		h := newHarness(t, Config{})
		h.dispatcher.Dispatch(testCtx(), GamePostInit)
		assert.Equal(t, uimodule.ReloadBlocked, h.plugin.UI().State())
		assert.Zero(t, h.registry.Len(), "post-init alone registers nothing by default")
	})

	t.Run("in the editor keeps reloads", func(t *testing.T) {
		h := newHarness(t, Config{Editor: true})
		h.dispatcher.Dispatch(testCtx(), GamePostInit)
		assert.Equal(t, uimodule.ReloadAllowed, h.plugin.UI().State())
	})

	t.Run("optionally registers the environment", func(t *testing.T) {
		h := newHarness(t, Config{RegisterOnPostInit: true})
		h.dispatcher.Dispatch(testCtx(), GamePostInit)
		assert.Equal(t, 3, h.registry.Len())
	})
}

func TestModeSwitch(t *testing.T) {
	h := newHarness(t, Config{Editor: true})
	h.dispatcher.Dispatch(testCtx(), ModeSwitchStart)
	assert.Equal(t, uimodule.ReloadBlocked, h.plugin.UI().State())
	h.dispatcher.Dispatch(testCtx(), ModeSwitchEnd)
	assert.Equal(t, uimodule.ReloadAllowed, h.plugin.UI().State())
}

func TestClose(t *testing.T) {
	h := newHarness(t, Config{Editor: true})
	h.dispatcher.Dispatch(testCtx(), RegisterEnv)

	h.plugin.Close(testCtx())
	assert.Zero(t, h.dispatcher.Len())
	assert.Equal(t, []string{GameNodesPackage, uimodule.PackageName}, packageNames(h.registry))

	h.dispatcher.Dispatch(testCtx(), ModeSwitchStart)
	assert.Equal(t, uimodule.ReloadAllowed, h.plugin.UI().State(), "closed plugins stop reacting")
}

func TestGameNodes(t *testing.T) {
	h := newHarness(t, Config{Editor: true})
	require.NoError(t, h.plugin.RegisterEnv(testCtx()))

	root, ok := h.registry.Root(GameNodesGUID)
	require.True(t, ok)

	enumScope := root.Find(func(e env.Element) bool { return e.Kind() == env.KindEnum })
	require.NotNil(t, enumScope)
	enum := enumScope.Element().(*env.EnumType)
	assert.Equal(t, gameevent.EnumGUID, enum.ID)
	require.Len(t, enum.Constants, len(gameevent.All))
	assert.Equal(t, uint64(gameevent.EntityKilled), enum.Constants[1].Value)

	killed := root.Find(func(e env.Element) bool { return e.Name() == "EntityKilled" })
	require.NotNil(t, killed)
	sig := killed.Element().(*env.Signal)
	assert.Equal(t, "OnEntityKilled", sig.Label)
	require.Len(t, sig.Members, 2)
	assert.Equal(t, "EntityClassname", sig.Members[1].Name)

	var signals int
	root.Walk(func(_ int, s *env.Scope) {
		if s.Element().Kind() == env.KindSignal {
			signals++
		}
	})
	assert.Equal(t, len(gameevent.All), signals)
}

func TestGameNodes_SendEvent(t *testing.T) {
	ctx := testCtx()
	h := newHarness(t, Config{Editor: true})
	require.NoError(t, h.plugin.RegisterEnv(ctx))

	h.plugin.Subscribe(7, gameevent.NewMask(gameevent.ResetGame, gameevent.CustomEvent))
	h.plugin.Subscribe(8, gameevent.NewMask(gameevent.ResetGame))

	out, err := h.function(t, GameNodesGUID, "SendEvent").Call(ctx, cty.StringVal("ResetGame"))
	require.NoError(t, err)
	assert.True(t, out[0].Equals(cty.NumberIntVal(2)).True())

	out, err = h.function(t, GameNodesGUID, "SendEventToEntity").Call(ctx, cty.NumberIntVal(8), cty.StringVal("Reset Game"))
	require.NoError(t, err)
	assert.True(t, out[0].Equals(cty.NumberIntVal(1)).True())

	out, err = h.function(t, GameNodesGUID, "SendCustomEvent").Call(ctx, cty.StringVal("round_over"))
	require.NoError(t, err)
	assert.True(t, out[0].Equals(cty.NumberIntVal(1)).True())

	got := h.plugin.TakeEvents(7)
	require.Len(t, got, 2)
	assert.Equal(t, gameevent.ResetGameSignal{}, decodeEvent(t, got[0]))
	assert.Equal(t, gameevent.CustomSignal{Data: "round_over"}, decodeEvent(t, got[1]))
	assert.Len(t, h.plugin.TakeEvents(8), 2)
	assert.Empty(t, h.plugin.TakeEvents(7), "taking events drains the mailbox")

	_, err = h.function(t, GameNodesGUID, "SendEvent").Call(ctx, cty.StringVal("Explode"))
	require.Error(t, err)
	_, err = h.function(t, GameNodesGUID, "SendEventToEntity").Call(ctx, cty.NumberFloatVal(1.5), cty.StringVal("ResetGame"))
	require.Error(t, err)
}

func TestGameEventSubscriberComponent(t *testing.T) {
	ctx := testCtx()
	h := newHarness(t, Config{Editor: true})
	require.NoError(t, h.plugin.RegisterEnv(ctx))

	root, _ := h.registry.Root(GUID)
	comp := root.Find(func(e env.Element) bool { return e.GUID() == GameEventSubscriberGUID })
	require.NotNil(t, comp)
	assert.Len(t, comp.Children(), 5)

	subscribe := h.function(t, GUID, "Subscribe")
	unsubscribe := h.function(t, GUID, "Unsubscribe")
	take := h.function(t, GUID, "TakeEvents")

	_, err := subscribe.Call(ctx, cty.NumberIntVal(3), cty.StringVal("SpawnPlayer | KillEntity"))
	require.NoError(t, err)

	h.plugin.SendEventToEntity(ctx, 3, gameevent.KillEntitySignal{})
	h.plugin.SendEvent(ctx, gameevent.SpawnPlayerSignal{})
	h.plugin.SendEvent(ctx, gameevent.ResetGameSignal{})

	out, err := take.Call(ctx, cty.NumberIntVal(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"KillEntity", "SpawnPlayer"}, eventNames(out[0]))

	_, err = unsubscribe.Call(ctx, cty.NumberIntVal(3), cty.StringVal("SpawnPlayer|KillEntity"))
	require.NoError(t, err)
	assert.Zero(t, h.plugin.Events().Len())

	h.plugin.SendEvent(ctx, gameevent.SpawnPlayerSignal{})
	out, err = take.Call(ctx, cty.NumberIntVal(3))
	require.NoError(t, err)
	assert.Zero(t, out[0].LengthInt())

	_, err = subscribe.Call(ctx, cty.NumberIntVal(3), cty.StringVal("Nope"))
	require.Error(t, err)
}

// decodeEvent turns a mailbox entry back into the signal it describes.
func decodeEvent(t *testing.T, v cty.Value) gameevent.Signal {
	t.Helper()
	k, err := gameevent.ParseKind(v.GetAttr("event").AsString())
	require.NoError(t, err)
	info, ok := gameevent.Describe(k)
	require.True(t, ok)
	assert.Equal(t, info.SignalGUID.String(), v.GetAttr("signal").AsString())
	sig, err := gameevent.DecodePayload(k, v.GetAttr("payload"))
	require.NoError(t, err)
	return sig
}

func eventNames(events cty.Value) []string {
	var names []string
	for it := events.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		names = append(names, ev.GetAttr("event").AsString())
	}
	return names
}

func TestGameEventSubscriber_PayloadRoundTrip(t *testing.T) {
	ctx := testCtx()
	h := newHarness(t, Config{Editor: true})
	require.NoError(t, h.plugin.RegisterEnv(ctx))

	subscribe := h.function(t, GUID, "Subscribe")
	take := h.function(t, GUID, "TakeEvents")
	send := h.function(t, GameNodesGUID, "SendEventToEntity")

	_, err := subscribe.Call(ctx, cty.NumberIntVal(7), cty.StringVal("EntityKilled|LeftArena|CustomEvent"))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		event   string
		payload cty.Value
		want    gameevent.Signal
	}{
		{
			name:  "entity killed",
			event: "EntityKilled",
			payload: cty.ObjectVal(map[string]cty.Value{
				"EntityId":        cty.NumberIntVal(42),
				"EntityClassname": cty.StringVal("Enemy"),
			}),
			want: gameevent.EntityKilledSignal{Entity: 42, ClassName: "Enemy"},
		},
		{
			name:  "left arena",
			event: "LeftArena",
			payload: cty.ObjectVal(map[string]cty.Value{
				"EdgeNormal": gameevent.Vec3Value(gameevent.Vec3{X: 1}),
			}),
			want: gameevent.LeftArenaSignal{EdgeNormal: gameevent.Vec3{X: 1}},
		},
		{
			name:    "custom",
			event:   "CustomEvent",
			payload: cty.ObjectVal(map[string]cty.Value{"Data": cty.StringVal("boss_phase_2")}),
			want:    gameevent.CustomSignal{Data: "boss_phase_2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := send.Call(ctx, cty.NumberIntVal(7), cty.StringVal(tc.event), tc.payload)
			require.NoError(t, err)
			assert.True(t, out[0].Equals(cty.NumberIntVal(1)).True())

			out, err = take.Call(ctx, cty.NumberIntVal(7))
			require.NoError(t, err)
			require.Equal(t, 1, out[0].LengthInt())
			assert.Equal(t, tc.want, decodeEvent(t, out[0].Index(cty.NumberIntVal(0))))
		})
	}

	t.Run("typed signals keep their payload", func(t *testing.T) {
		h.plugin.SendEvent(ctx, gameevent.EntityKilledSignal{Entity: 5, ClassName: "Drone"})
		got := h.plugin.TakeEvents(7)
		require.Len(t, got, 1)
		payload := got[0].GetAttr("payload")
		assert.True(t, payload.GetAttr("EntityId").Equals(cty.NumberIntVal(5)).True())
		assert.Equal(t, "Drone", payload.GetAttr("EntityClassname").AsString())
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := send.Call(ctx, cty.NumberIntVal(7), cty.StringVal("EntityKilled"), cty.StringVal("Enemy"))
		require.Error(t, err)
		assert.Empty(t, h.plugin.TakeEvents(7))
	})
}

func TestGameEventSubscriber_ElementEvents(t *testing.T) {
	ctx := testCtx()
	registry := env.NewRegistry()
	compiler := env.NewCompiler(registry)
	newHUD := func() *uielement.Element {
		return &uielement.Element{
			ElementName: "HUD",
			Movie:       "hud.gfx",
			Events: []uielement.Event{{
				Name:   "OnButtonPressed",
				Params: []uielement.Param{{Name: "id", Type: cty.String}},
			}},
		}
	}
	hud := newHUD()
	source := &swapSource{elements: []*uielement.Element{hud}}
	p := New(Config{Editor: true}, registry, compiler, source)
	require.NoError(t, p.RegisterEnv(ctx))

	root, ok := registry.Root(GUID)
	require.True(t, ok)
	find := func(name string) *env.Function {
		s := root.Find(func(e env.Element) bool { return e.Kind() == env.KindFunction && e.Name() == name })
		require.NotNil(t, s, "function %s", name)
		return s.Element().(*env.Function)
	}

	_, err := find("SubscribeElement").Call(ctx, cty.NumberIntVal(1), cty.StringVal("Missing"))
	require.Error(t, err)
	_, err = find("SubscribeElement").Call(ctx, cty.NumberIntVal(1), cty.StringVal("HUD"))
	require.NoError(t, err)

	require.NoError(t, hud.Fire("OnButtonPressed", map[string]cty.Value{"id": cty.StringVal("ok")}))
	out, err := find("TakeEvents").Call(ctx, cty.NumberIntVal(1))
	require.NoError(t, err)
	require.Equal(t, 1, out[0].LengthInt())
	ev := out[0].Index(cty.NumberIntVal(0))
	id := typeid.Derive("HUD")
	assert.Equal(t, "OnButtonPressed", ev.GetAttr("event").AsString())
	assert.Equal(t, "HUD", ev.GetAttr("element").AsString())
	assert.Equal(t, registrar.ElementEventID(id, "OnButtonPressed").String(), ev.GetAttr("signal").AsString())
	assert.Equal(t, "ok", ev.GetAttr("payload").GetAttr("id").AsString())

	fresh := newHUD()
	source.elements = []*uielement.Element{fresh}
	reloaded, err := p.UI().Reload(ctx)
	require.NoError(t, err)
	require.True(t, reloaded)

	require.NoError(t, hud.Fire("OnButtonPressed", nil))
	assert.Empty(t, p.TakeEvents(1), "handles replaced by a reload are not relayed")
	require.NoError(t, fresh.Fire("OnButtonPressed", nil))
	assert.Len(t, p.TakeEvents(1), 1, "the binding follows the element across reloads")

	_, err = find("UnsubscribeElement").Call(ctx, cty.NumberIntVal(1), cty.StringVal("HUD"))
	require.NoError(t, err)
	require.NoError(t, fresh.Fire("OnButtonPressed", nil))
	assert.Empty(t, p.TakeEvents(1))
}

// swapSource is a Source whose contents tests replace between reloads.
type swapSource struct {
	elements []*uielement.Element
}

func (s *swapSource) Count() int                         { return len(s.elements) }
func (s *swapSource) ElementAt(i int) *uielement.Element { return s.elements[i] }
