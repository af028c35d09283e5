package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/sentinel/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should report false")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, k, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected slot reuse, got %s after %s", reused, old)
	}
	if reused == old {
		t.Fatalf("reused handle must differ in generation")
	}
	if _, ok := Get(w, reused, k); ok {
		t.Fatalf("component leaked into reused slot")
	}
	if err := Add(w, old, k, intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestComponentsTable(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
		{
			name: "mutation_through_pointer",
			setup: func() error {
				return Add(w, e2, h1.Kind(), intPtr(1))
			},
			check: func(t *testing.T) {
				v, _ := Get(w, e2, h1.Kind())
				*v = 42
				again, _ := Get(w, e2, h1.Kind())
				if *again != 42 {
					t.Fatalf("expected stored pointer to be shared, got %d", *again)
				}
			},
			teardown: func() bool { return Remove(w, e2, h1.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, h1.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e1, component.ComponentKind[int]{}, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	for _, e := range []Entity{e1, e3} {
		if err := Add(w, e, h.Kind(), intPtr(int(e.id()))); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	seen := map[Entity]bool{}
	ForEach(w, h.Kind(), func(e Entity, _ *int) { seen[e] = true })

	if !seen[e1] || !seen[e3] {
		t.Fatalf("expected e1 and e3 in ForEach result, got %v", seen)
	}
	if seen[e2] {
		t.Fatalf("did not expect e2 in ForEach result")
	}
}

func TestForEachToleratesDestroy(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	for i := 0; i < 5; i++ {
		_ = Add(w, CreateEntity(w), k, intPtr(i))
	}

	visited := 0
	ForEach(w, k, func(e Entity, _ *int) {
		visited++
		DestroyEntity(w, e)
	})
	if visited != 5 {
		t.Fatalf("expected 5 visits, got %d", visited)
	}
	if len(Entities(w)) != 0 {
		t.Fatalf("expected all entities destroyed")
	}
}

func TestForEach2And3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				_ = Add(w, e1, ka, intPtr(1))
				_ = Add(w, e2, ka, intPtr(2))
				_ = Add(w, e2, kb, intPtr(3))
				_ = Add(w, e2, kc, intPtr(5))
				_ = Add(w, e3, kb, intPtr(4))

				var pairs []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { pairs = append(pairs, e) })
				if len(pairs) != 1 || pairs[0] != e2 {
					t.Fatalf("expected only e2 in pair query, got %v", pairs)
				}

				var triples []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { triples = append(triples, e) })
				if len(triples) != 1 || triples[0] != e2 {
					t.Fatalf("expected only e2, got %v", triples)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, intPtr(2))
				DestroyEntity(w, e)

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[string]()
	if _, _, ok := First(w, k); ok {
		t.Fatalf("expected no entity in empty world")
	}
	_ = CreateEntity(w)
	e := CreateEntity(w)
	_ = Add(w, e, k, stringPtr("target"))

	got, v, ok := First(w, k)
	if !ok || got != e || *v != "target" {
		t.Fatalf("expected %s/target, got %s/%v ok=%v", e, got, v, ok)
	}
}

func TestSchedulerOrderAndEvents(t *testing.T) {
	w := NewWorld()
	var order []string
	var drained []Event

	s := NewScheduler(
		SystemFunc(func(w *World, dt float64) {
			order = append(order, "produce")
			w.Events().Push(Event{Type: "ping", Data: dt})
		}),
		nil,
		SystemFunc(func(w *World, dt float64) {
			order = append(order, "consume")
			drained = append(drained, w.Events().Drain()...)
		}),
	)

	if err := s.Update(w, 0.5); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "produce" || order[1] != "consume" {
		t.Fatalf("unexpected order %v", order)
	}
	if len(drained) != 1 || drained[0].Data.(float64) != 0.5 {
		t.Fatalf("unexpected events %v", drained)
	}
	if w.Tick() != 1 || w.Time() != 0.5 {
		t.Fatalf("expected tick 1 time 0.5, got %d %.2f", w.Tick(), w.Time())
	}

	if err := s.Update(w, -1); !errors.Is(err, ErrNegativeDelta) {
		t.Fatalf("expected ErrNegativeDelta, got %v", err)
	}
	if w.Tick() != 1 {
		t.Fatalf("rejected update must not advance the clock")
	}
}
