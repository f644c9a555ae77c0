package hook

import (
	"sync"
	"testing"
)

func TestRegistryRegister(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "duplicate registration stores one entry",
			run: func(t *testing.T) {
				r := NewRegistry()
				e := Entry{Target: 0x100, Key: 0x41, Mods: ModControl, Block: true}
				r.Register(e)
				r.Register(e)
				if got := r.Len(); got != 1 {
					t.Fatalf("Len() = %d, want 1", got)
				}
			},
		},
		{
			name: "entries differing in any field are distinct",
			run: func(t *testing.T) {
				r := NewRegistry()
				base := Entry{Target: 0x100, Key: 0x41}
				r.Register(base)
				r.Register(Entry{Target: 0x200, Key: 0x41})
				r.Register(Entry{Target: 0x100, Key: 0x42})
				r.Register(Entry{Target: 0x100, Key: 0x41, Mods: ModShift})
				r.Register(Entry{Target: 0x100, Key: 0x41, Block: true})
				if got := r.Len(); got != 5 {
					t.Fatalf("Len() = %d, want 5", got)
				}
			},
		},
		{
			name: "insertion order preserved",
			run: func(t *testing.T) {
				r := NewRegistry()
				first := Entry{Target: 0x100, Key: 0x41, Block: true}
				second := Entry{Target: 0x100, Key: 0x41, Mods: ModShift}
				r.Register(first)
				r.Register(second)
				got := r.Entries()
				if len(got) != 2 || got[0] != first || got[1] != second {
					t.Fatalf("Entries() = %v, want [%v %v]", got, first, second)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}
}

func TestRegistryMatches(t *testing.T) {
	r := NewRegistry()
	r.Register(Entry{Target: 0x100, Key: 0x41, Block: true})
	r.Register(Entry{Target: 0x200, Key: 0x41})
	r.Register(Entry{Target: 0x100, Key: 0x42})
	r.Register(Entry{Target: 0x100, Key: 0x41, Mods: ModShift})

	got := r.Matches(0x100, 0x41)
	if len(got) != 2 {
		t.Fatalf("Matches returned %d entries, want 2: %v", len(got), got)
	}
	if !got[0].Block || got[1].Mods != ModShift {
		t.Fatalf("Matches out of insertion order: %v", got)
	}

	if got := r.Matches(0x300, 0x41); got != nil {
		t.Fatalf("Matches for unknown window = %v, want none", got)
	}
}

func TestRegistryConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				r.Register(Entry{Target: Window(i), Key: uint32(k)})
				r.Matches(Window(i), uint32(k))
			}
		}(i)
	}
	wg.Wait()
	if got := r.Len(); got != 800 {
		t.Fatalf("Len() = %d, want 800", got)
	}
}
